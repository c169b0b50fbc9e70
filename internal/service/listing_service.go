package service

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/repository"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

// ListingService handles marketplace listing logic
type ListingService struct {
	listingRepo *repository.ListingRepo
}

// NewListingService creates a new ListingService
func NewListingService(listingRepo *repository.ListingRepo) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// CreateListingRequest represents listing creation request
type CreateListingRequest struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Subject     string  `json:"subject"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// CreateListing publishes a new listing for the creator
func (s *ListingService) CreateListing(ctx context.Context, creatorId string, req *CreateListingRequest) (*entity.Listing, error) {
	listing := &entity.Listing{
		ListingId:   idgen.MustNextID(),
		CreatorId:   creatorId,
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		HourlyRate:  req.HourlyRate,
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		log.CtxError(ctx, "create listing failed: creator_id=%s, error=%v", creatorId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "listing created: listing_id=%s, creator_id=%s", listing.ListingId, creatorId)
	return listing, nil
}

// GetListing gets a listing by id
func (s *ListingService) GetListing(ctx context.Context, listingId string) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetById(ctx, listingId)
	if err != nil {
		log.CtxError(ctx, "get listing failed: listing_id=%s, error=%v", listingId, err)
		return nil, errcode.ErrInternalServer
	}
	if listing == nil {
		return nil, errcode.ErrListingNotFound
	}
	return listing, nil
}

// BrowseListings searches listings by subject and kind
func (s *ListingService) BrowseListings(ctx context.Context, subject, kind string, limit int) ([]*entity.Listing, error) {
	listings, err := s.listingRepo.Browse(ctx, subject, kind, limit)
	if err != nil {
		log.CtxError(ctx, "browse listings failed: subject=%s, kind=%s, error=%v", subject, kind, err)
		return nil, errcode.ErrInternalServer
	}
	return listings, nil
}

// GetUserListings gets all listings published by a user
func (s *ListingService) GetUserListings(ctx context.Context, creatorId string) ([]*entity.Listing, error) {
	listings, err := s.listingRepo.GetByCreator(ctx, creatorId)
	if err != nil {
		log.CtxError(ctx, "get user listings failed: creator_id=%s, error=%v", creatorId, err)
		return nil, errcode.ErrInternalServer
	}
	return listings, nil
}

// UpdateListingRequest represents listing update request
type UpdateListingRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
}

// UpdateListing updates a listing owned by the caller
func (s *ListingService) UpdateListing(ctx context.Context, userId, listingId string, req *UpdateListingRequest) (*entity.Listing, error) {
	listing, err := s.GetListing(ctx, listingId)
	if err != nil {
		return nil, err
	}
	if listing.CreatorId != userId {
		return nil, errcode.ErrNoPermission
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Subject != "" {
		updates["subject"] = req.Subject
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, errcode.ErrListingInvalid
		}
		updates["hourly_rate"] = *req.HourlyRate
	}

	if len(updates) > 0 {
		if err := s.listingRepo.Update(ctx, listingId, updates); err != nil {
			log.CtxError(ctx, "update listing failed: listing_id=%s, error=%v", listingId, err)
			return nil, errcode.ErrInternalServer
		}
	}

	return s.GetListing(ctx, listingId)
}

// DeleteListing removes a listing owned by the caller
func (s *ListingService) DeleteListing(ctx context.Context, userId, listingId string) error {
	listing, err := s.GetListing(ctx, listingId)
	if err != nil {
		return err
	}
	if listing.CreatorId != userId {
		return errcode.ErrNoPermission
	}

	if err := s.listingRepo.Delete(ctx, listingId); err != nil {
		log.CtxError(ctx, "delete listing failed: listing_id=%s, error=%v", listingId, err)
		return errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "listing deleted: listing_id=%s", listingId)
	return nil
}
