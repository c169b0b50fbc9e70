package sdk

import "context"

// CreateBooking books a session against a listing
func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	var result Booking
	if err := c.post(ctx, "/booking/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBooking gets a booking by id
func (c *Client) GetBooking(ctx context.Context, bookingId string) (*Booking, error) {
	params := map[string]string{"booking_id": bookingId}
	var result Booking
	if err := c.get(ctx, "/booking/info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMyBookings gets the current user's bookings
func (c *Client) GetMyBookings(ctx context.Context) ([]*Booking, error) {
	var result []*Booking
	if err := c.get(ctx, "/booking/mine", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateBookingStatus moves a booking through its lifecycle
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingId, status string) (*Booking, error) {
	req := &UpdateBookingStatusRequest{BookingId: bookingId, Status: status}
	var result Booking
	if err := c.post(ctx, "/booking/status", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmBooking confirms a pending booking (provider only)
func (c *Client) ConfirmBooking(ctx context.Context, bookingId string) (*Booking, error) {
	return c.UpdateBookingStatus(ctx, bookingId, BookingStatusConfirmed)
}

// CompleteBooking completes a confirmed booking (provider only)
func (c *Client) CompleteBooking(ctx context.Context, bookingId string) (*Booking, error) {
	return c.UpdateBookingStatus(ctx, bookingId, BookingStatusCompleted)
}

// CancelBooking cancels a booking
func (c *Client) CancelBooking(ctx context.Context, bookingId string) (*Booking, error) {
	return c.UpdateBookingStatus(ctx, bookingId, BookingStatusCancelled)
}

// MarkBookingPaid records payment on a booking (booker only)
func (c *Client) MarkBookingPaid(ctx context.Context, bookingId string) (*Booking, error) {
	var result Booking
	if err := c.post(ctx, "/booking/pay", &PaymentRequest{BookingId: bookingId}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmBookingPayment acknowledges a payment (provider only)
func (c *Client) ConfirmBookingPayment(ctx context.Context, bookingId string) (*Booking, error) {
	var result Booking
	if err := c.post(ctx, "/booking/confirm_payment", &PaymentRequest{BookingId: bookingId}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateRating rates the other participant of a completed booking
func (c *Client) CreateRating(ctx context.Context, req *CreateRatingRequest) (*Rating, error) {
	var result Rating
	if err := c.post(ctx, "/rating/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserRatings gets the ratings a user has received
func (c *Client) GetUserRatings(ctx context.Context, userId string) ([]*Rating, error) {
	var result []*Rating
	if err := c.get(ctx, "/rating/user/"+userId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
