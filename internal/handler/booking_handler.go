package handler

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/middleware"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// BookingHandler handles session booking requests
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking handles create booking request
func (h *BookingHandler) CreateBooking(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateBookingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.ListingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	booking, err := h.bookingService.CreateBooking(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, booking)
}

// GetBooking handles get booking request
func (h *BookingHandler) GetBooking(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	bookingId := c.Query("booking_id")
	if bookingId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	booking, err := h.bookingService.GetBooking(ctx, userId, bookingId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, booking)
}

// GetMyBookings handles get own bookings request
func (h *BookingHandler) GetMyBookings(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	bookings, err := h.bookingService.GetUserBookings(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, bookings)
}

// UpdateStatusRequest represents booking status update request
type UpdateStatusRequest struct {
	BookingId string `json:"booking_id"`
	Status    string `json:"status"`
}

// UpdateStatus handles booking status transition request
func (h *BookingHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req UpdateStatusRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	switch req.Status {
	case constant.BookingStatusConfirmed, constant.BookingStatusCompleted, constant.BookingStatusCancelled:
	default:
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	booking, err := h.bookingService.UpdateStatus(ctx, userId, req.BookingId, req.Status)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, booking)
}

// PaymentRequest represents a payment action request
type PaymentRequest struct {
	BookingId string `json:"booking_id"`
}

// MarkPaid handles the booker's payment notification
func (h *BookingHandler) MarkPaid(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req PaymentRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	booking, err := h.bookingService.MarkPaid(ctx, userId, req.BookingId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, booking)
}

// ConfirmPayment handles the provider's payment confirmation
func (h *BookingHandler) ConfirmPayment(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req PaymentRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	booking, err := h.bookingService.ConfirmPayment(ctx, userId, req.BookingId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, booking)
}
