package sdk

import (
	"context"
	"strconv"
)

// CreateListing publishes a new listing
func (c *Client) CreateListing(ctx context.Context, req *CreateListingRequest) (*Listing, error) {
	var result Listing
	if err := c.post(ctx, "/listing/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetListing gets a listing by id
func (c *Client) GetListing(ctx context.Context, listingId string) (*Listing, error) {
	params := map[string]string{"listing_id": listingId}
	var result Listing
	if err := c.get(ctx, "/listing/info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BrowseListings searches listings by subject and kind
func (c *Client) BrowseListings(ctx context.Context, subject, kind string, limit int) ([]*Listing, error) {
	params := map[string]string{}
	if subject != "" {
		params["subject"] = subject
	}
	if kind != "" {
		params["kind"] = kind
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	var result []*Listing
	if err := c.get(ctx, "/listing/browse", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMyListings gets the current user's listings
func (c *Client) GetMyListings(ctx context.Context) ([]*Listing, error) {
	var result []*Listing
	if err := c.get(ctx, "/listing/mine", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateListing updates a listing owned by the current user
func (c *Client) UpdateListing(ctx context.Context, listingId string, req *UpdateListingRequest) (*Listing, error) {
	var result Listing
	if err := c.put(ctx, "/listing/update?listing_id="+listingId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteListing removes a listing owned by the current user
func (c *Client) DeleteListing(ctx context.Context, listingId string) error {
	return c.delete(ctx, "/listing/delete", map[string]string{"listing_id": listingId})
}
