package entity

import (
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
)

// Booking links a listing creator (the provider) and a booker for a
// tutoring session. An ongoing booking between two users blocks deletion
// of their conversation.
type Booking struct {
	BookingId     string  `json:"booking_id" gorm:"column:booking_id;primaryKey"`
	ListingId     string  `json:"listing_id" gorm:"column:listing_id;index"`
	ProviderId    string  `json:"provider_id" gorm:"column:provider_id;index"`
	BookerId      string  `json:"booker_id" gorm:"column:booker_id;index"`
	SessionStart  int64   `json:"session_start" gorm:"column:session_start"`
	SessionEnd    int64   `json:"session_end" gorm:"column:session_end"`
	Status        string  `json:"status" gorm:"column:status"`
	PaymentStatus string  `json:"payment_status" gorm:"column:payment_status"`
	Price         float64 `json:"price" gorm:"column:price"`
	CreatedAt     int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt     int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Validate checks booking invariants before persisting
func (b *Booking) Validate() error {
	if b.SessionStart >= b.SessionEnd {
		return errcode.ErrBookingInvalid.Wrap(errSessionOrder)
	}
	if b.ProviderId == b.BookerId {
		return errcode.ErrBookingInvalid.Wrap(errSameParties)
	}
	if b.Price < 0 {
		return errcode.ErrBookingInvalid.Wrap(errNegativePrice)
	}
	return nil
}

// IsOngoing reports whether the booking still ties its two users
// together: pending and confirmed bookings count, completed and cancelled
// ones do not.
func (b *Booking) IsOngoing() bool {
	return b.Status == constant.BookingStatusPending || b.Status == constant.BookingStatusConfirmed
}

var (
	errSessionOrder  = validationError("session start must be before session end")
	errSameParties   = validationError("provider and booker must be different users")
	errNegativePrice = validationError("price must be non-negative")
)

type validationError string

func (e validationError) Error() string { return string(e) }
