package repository

import (
	"context"
	"errors"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"gorm.io/gorm"
)

// BookingRepo is the repository for booking operations
type BookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo creates a new BookingRepo
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create creates a new booking
func (r *BookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetById gets a booking by Id, nil when absent
func (r *BookingRepo) GetById(ctx context.Context, bookingId string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingId).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// GetByParticipant gets all bookings where the user is provider or booker
func (r *BookingRepo) GetByParticipant(ctx context.Context, userId string) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	err := r.db.WithContext(ctx).
		Where("provider_id = ? OR booker_id = ?", userId, userId).
		Order("session_start DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus sets the booking status
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingId, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Booking{}).
		Where("booking_id = ?", bookingId).
		Update("status", status).Error
}

// UpdatePaymentStatus sets the payment status
func (r *BookingRepo) UpdatePaymentStatus(ctx context.Context, bookingId, paymentStatus string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Booking{}).
		Where("booking_id = ?", bookingId).
		Update("payment_status", paymentStatus).Error
}

// HasOngoingBookingBetween reports whether a pending or confirmed booking
// links the two users, in either provider/booker direction
func (r *BookingRepo) HasOngoingBookingBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Booking{}).
		Where("status IN ?", []string{constant.BookingStatusPending, constant.BookingStatusConfirmed}).
		Where(
			r.db.Where("provider_id = ? AND booker_id = ?", userA, userB).
				Or("provider_id = ? AND booker_id = ?", userB, userA),
		).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
