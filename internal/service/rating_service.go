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

// RatingService handles post-session ratings
type RatingService struct {
	ratingRepo  *repository.RatingRepo
	bookingRepo *repository.BookingRepo
}

// NewRatingService creates a new RatingService
func NewRatingService(ratingRepo *repository.RatingRepo, bookingRepo *repository.BookingRepo) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateRatingRequest represents rating creation request
type CreateRatingRequest struct {
	BookingId string `json:"booking_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
}

// CreateRating rates the other participant of a completed booking. One
// rating per booking per rater.
func (s *RatingService) CreateRating(ctx context.Context, raterId string, req *CreateRatingRequest) (*entity.Rating, error) {
	booking, err := s.bookingRepo.GetById(ctx, req.BookingId)
	if err != nil {
		log.CtxError(ctx, "get booking failed: booking_id=%s, error=%v", req.BookingId, err)
		return nil, errcode.ErrInternalServer
	}
	if booking == nil {
		return nil, errcode.ErrBookingNotFound
	}
	if booking.ProviderId != raterId && booking.BookerId != raterId {
		return nil, errcode.ErrNoPermission
	}
	if booking.Status != constant.BookingStatusCompleted {
		return nil, errcode.ErrRatingInvalid
	}

	exists, err := s.ratingRepo.ExistsForBookingByRater(ctx, req.BookingId, raterId)
	if err != nil {
		log.CtxError(ctx, "check rating exists failed: booking_id=%s, error=%v", req.BookingId, err)
		return nil, errcode.ErrInternalServer
	}
	if exists {
		return nil, errcode.ErrAlreadyRated
	}

	ratedUserId := booking.ProviderId
	if raterId == booking.ProviderId {
		ratedUserId = booking.BookerId
	}

	rating := &entity.Rating{
		RatingId:    idgen.MustNextID(),
		BookingId:   req.BookingId,
		RaterId:     raterId,
		RatedUserId: ratedUserId,
		Stars:       req.Stars,
		Comment:     req.Comment,
	}
	if err := rating.Validate(); err != nil {
		return nil, err
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		log.CtxError(ctx, "create rating failed: booking_id=%s, rater_id=%s, error=%v", req.BookingId, raterId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "rating created: rating_id=%s, booking_id=%s, stars=%d", rating.RatingId, req.BookingId, req.Stars)
	return rating, nil
}

// GetUserRatings gets all ratings a user has received
func (s *RatingService) GetUserRatings(ctx context.Context, ratedUserId string) ([]*entity.Rating, error) {
	ratings, err := s.ratingRepo.GetForUser(ctx, ratedUserId)
	if err != nil {
		log.CtxError(ctx, "get user ratings failed: user_id=%s, error=%v", ratedUserId, err)
		return nil, errcode.ErrInternalServer
	}
	return ratings, nil
}
