package repository

import (
	"context"
	"errors"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"gorm.io/gorm"
)

// ListingRepo is the repository for listing operations
type ListingRepo struct {
	db *gorm.DB
}

// NewListingRepo creates a new ListingRepo
func NewListingRepo(db *gorm.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

// Create creates a new listing
func (r *ListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// GetById gets a listing by Id, nil when absent
func (r *ListingRepo) GetById(ctx context.Context, listingId string) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.db.WithContext(ctx).Where("listing_id = ?", listingId).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// GetByCreator gets all listings created by a user
func (r *ListingRepo) GetByCreator(ctx context.Context, creatorId string) ([]*entity.Listing, error) {
	var listings []*entity.Listing
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorId).
		Order("updated_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Browse returns listings filtered by subject and/or kind
func (r *ListingRepo) Browse(ctx context.Context, subject, kind string, limit int) ([]*entity.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&entity.Listing{})
	if subject != "" {
		q = q.Where("subject = ?", subject)
	}
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var listings []*entity.Listing
	err := q.Order("updated_at DESC").Limit(limit).Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Update updates listing fields
func (r *ListingRepo) Update(ctx context.Context, listingId string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Listing{}).
		Where("listing_id = ?", listingId).
		Updates(updates).Error
}

// Delete removes a listing
func (r *ListingRepo) Delete(ctx context.Context, listingId string) error {
	return r.db.WithContext(ctx).Where("listing_id = ?", listingId).Delete(&entity.Listing{}).Error
}
