package service

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/repository"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

// statusTransitions lists the allowed booking status changes
var statusTransitions = map[string][]string{
	constant.BookingStatusPending:   {constant.BookingStatusConfirmed, constant.BookingStatusCancelled},
	constant.BookingStatusConfirmed: {constant.BookingStatusCompleted, constant.BookingStatusCancelled},
}

// BookingService handles session booking logic. It also serves as the
// guard that blocks conversation deletion while a booking between the
// two participants is still ongoing.
type BookingService struct {
	bookingRepo *repository.BookingRepo
	listingRepo *repository.ListingRepo
}

// NewBookingService creates a new BookingService
func NewBookingService(bookingRepo *repository.BookingRepo, listingRepo *repository.ListingRepo) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
	}
}

// CreateBookingRequest represents booking creation request
type CreateBookingRequest struct {
	ListingId    string `json:"listing_id"`
	SessionStart int64  `json:"session_start"`
	SessionEnd   int64  `json:"session_end"`
}

// CreateBooking books a session against a listing. The listing creator
// becomes the provider, the caller the booker; the price is derived from
// the listing's hourly rate and the session length.
func (s *BookingService) CreateBooking(ctx context.Context, bookerId string, req *CreateBookingRequest) (*entity.Booking, error) {
	listing, err := s.listingRepo.GetById(ctx, req.ListingId)
	if err != nil {
		log.CtxError(ctx, "get listing failed: listing_id=%s, error=%v", req.ListingId, err)
		return nil, errcode.ErrInternalServer
	}
	if listing == nil {
		return nil, errcode.ErrListingNotFound
	}

	hours := float64(req.SessionEnd-req.SessionStart) / (1000 * 60 * 60)
	booking := &entity.Booking{
		BookingId:     idgen.MustNextID(),
		ListingId:     listing.ListingId,
		ProviderId:    listing.CreatorId,
		BookerId:      bookerId,
		SessionStart:  req.SessionStart,
		SessionEnd:    req.SessionEnd,
		Status:        constant.BookingStatusPending,
		PaymentStatus: constant.PaymentStatusPending,
		Price:         listing.HourlyRate * hours,
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		log.CtxError(ctx, "create booking failed: listing_id=%s, booker_id=%s, error=%v", req.ListingId, bookerId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "booking created: booking_id=%s, provider_id=%s, booker_id=%s", booking.BookingId, booking.ProviderId, bookerId)
	return booking, nil
}

// GetBooking gets a booking by id, restricted to its participants
func (s *BookingService) GetBooking(ctx context.Context, userId, bookingId string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetById(ctx, bookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%s, error=%v", bookingId, err)
		return nil, errcode.ErrInternalServer
	}
	if booking == nil {
		return nil, errcode.ErrBookingNotFound
	}
	if booking.ProviderId != userId && booking.BookerId != userId {
		return nil, errcode.ErrNoPermission
	}
	return booking, nil
}

// GetUserBookings gets all bookings the user participates in
func (s *BookingService) GetUserBookings(ctx context.Context, userId string) ([]*entity.Booking, error) {
	bookings, err := s.bookingRepo.GetByParticipant(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get user bookings failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	return bookings, nil
}

// UpdateStatus moves a booking through its lifecycle. Only the provider
// may confirm or complete; either participant may cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, userId, bookingId, newStatus string) (*entity.Booking, error) {
	booking, err := s.GetBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}

	if newStatus != constant.BookingStatusCancelled && booking.ProviderId != userId {
		return nil, errcode.ErrNoPermission
	}

	if !transitionAllowed(booking.Status, newStatus) {
		return nil, errcode.ErrBadStatusTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingId, newStatus); err != nil {
		log.CtxError(ctx, "update booking status failed: booking_id=%s, status=%s, error=%v", bookingId, newStatus, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "booking status updated: booking_id=%s, from=%s, to=%s", bookingId, booking.Status, newStatus)
	booking.Status = newStatus
	return booking, nil
}

// MarkPaid records the booker's payment on a booking
func (s *BookingService) MarkPaid(ctx context.Context, userId, bookingId string) (*entity.Booking, error) {
	booking, err := s.GetBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.BookerId != userId {
		return nil, errcode.ErrNoPermission
	}
	if booking.PaymentStatus != constant.PaymentStatusPending {
		return nil, errcode.ErrBookingInvalid
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingId, constant.PaymentStatusPaid); err != nil {
		log.CtxError(ctx, "update payment status failed: booking_id=%s, error=%v", bookingId, err)
		return nil, errcode.ErrInternalServer
	}

	booking.PaymentStatus = constant.PaymentStatusPaid
	return booking, nil
}

// ConfirmPayment records the provider's acknowledgement of the payment
func (s *BookingService) ConfirmPayment(ctx context.Context, userId, bookingId string) (*entity.Booking, error) {
	booking, err := s.GetBooking(ctx, userId, bookingId)
	if err != nil {
		return nil, err
	}
	if booking.ProviderId != userId {
		return nil, errcode.ErrNoPermission
	}
	if booking.PaymentStatus != constant.PaymentStatusPaid {
		return nil, errcode.ErrBookingInvalid
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingId, constant.PaymentStatusConfirmed); err != nil {
		log.CtxError(ctx, "confirm payment failed: booking_id=%s, error=%v", bookingId, err)
		return nil, errcode.ErrInternalServer
	}

	booking.PaymentStatus = constant.PaymentStatusConfirmed
	return booking, nil
}

// HasOngoingBookingBetween reports whether a pending or confirmed
// booking ties the two users together. Satisfies the deletion guard
// consumed by the conversation manager.
func (s *BookingService) HasOngoingBookingBetween(ctx context.Context, userA, userB string) (bool, error) {
	return s.bookingRepo.HasOngoingBookingBetween(ctx, userA, userB)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
