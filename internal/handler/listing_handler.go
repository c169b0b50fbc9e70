package handler

import (
	"context"
	"strconv"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/middleware"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// ListingHandler handles marketplace listing requests
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListing handles create listing request
func (h *ListingHandler) CreateListing(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateListingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	listing, err := h.listingService.CreateListing(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, listing)
}

// GetListing handles get listing request
func (h *ListingHandler) GetListing(ctx context.Context, c *app.RequestContext) {
	listingId := c.Query("listing_id")
	if listingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	listing, err := h.listingService.GetListing(ctx, listingId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, listing)
}

// BrowseListings handles browse listings request
func (h *ListingHandler) BrowseListings(ctx context.Context, c *app.RequestContext) {
	subject := c.Query("subject")
	kind := c.Query("kind")
	limit, _ := strconv.Atoi(c.Query("limit"))

	listings, err := h.listingService.BrowseListings(ctx, subject, kind, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, listings)
}

// GetMyListings handles get own listings request
func (h *ListingHandler) GetMyListings(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	listings, err := h.listingService.GetUserListings(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, listings)
}

// UpdateListing handles update listing request
func (h *ListingHandler) UpdateListing(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	listingId := c.Query("listing_id")
	if listingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.UpdateListingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	listing, err := h.listingService.UpdateListing(ctx, userId, listingId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, listing)
}

// DeleteListing handles delete listing request
func (h *ListingHandler) DeleteListing(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	listingId := c.Query("listing_id")
	if listingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.listingService.DeleteListing(ctx, userId, listingId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
