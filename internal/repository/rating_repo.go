package repository

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"gorm.io/gorm"
)

// RatingRepo is the repository for rating operations
type RatingRepo struct {
	db *gorm.DB
}

// NewRatingRepo creates a new RatingRepo
func NewRatingRepo(db *gorm.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// Create creates a new rating
func (r *RatingRepo) Create(ctx context.Context, rating *entity.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// GetForUser gets all ratings received by a user
func (r *RatingRepo) GetForUser(ctx context.Context, ratedUserId string) ([]*entity.Rating, error) {
	var ratings []*entity.Rating
	err := r.db.WithContext(ctx).
		Where("rated_user_id = ?", ratedUserId).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ExistsForBookingByRater checks whether the rater already rated this booking
func (r *RatingRepo) ExistsForBookingByRater(ctx context.Context, bookingId, raterId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Rating{}).
		Where("booking_id = ? AND rater_id = ?", bookingId, raterId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AverageForUser returns the average stars received by a user and the
// number of ratings it is based on
func (r *RatingRepo) AverageForUser(ctx context.Context, ratedUserId string) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Rating{}).
		Select("COALESCE(AVG(stars), 0) as avg, COUNT(*) as count").
		Where("rated_user_id = ?", ratedUserId).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}
