package tests

import (
	"fmt"
	"testing"
	"time"
)

// BookingInfo represents a session booking
type BookingInfo struct {
	BookingId     string  `json:"booking_id"`
	ListingId     string  `json:"listing_id"`
	ProviderId    string  `json:"provider_id"`
	BookerId      string  `json:"booker_id"`
	SessionStart  int64   `json:"session_start"`
	SessionEnd    int64   `json:"session_end"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Price         float64 `json:"price"`
}

// CreateBookingRequest represents booking creation request
type CreateBookingRequest struct {
	ListingId    string `json:"listing_id"`
	SessionStart int64  `json:"session_start"`
	SessionEnd   int64  `json:"session_end"`
}

// UpdateBookingStatusRequest represents booking status update request
type UpdateBookingStatusRequest struct {
	BookingId string `json:"booking_id"`
	Status    string `json:"status"`
}

// PaymentRequest represents a payment step request
type PaymentRequest struct {
	BookingId string `json:"booking_id"`
}

// RatingInfo represents a session rating
type RatingInfo struct {
	RatingId    string `json:"rating_id"`
	BookingId   string `json:"booking_id"`
	RaterId     string `json:"rater_id"`
	RatedUserId string `json:"rated_user_id"`
	Stars       int    `json:"stars"`
	Comment     string `json:"comment"`
}

// CreateRatingRequest represents create rating request
type CreateRatingRequest struct {
	BookingId string `json:"booking_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
}

// CreateBookingAndGetId books a two hour session and returns the booking id
func CreateBookingAndGetId(t *testing.T, client *APIClient, listingId string) string {
	t.Helper()
	start := time.Now().Add(24 * time.Hour).UnixMilli()
	resp, err := client.POST("/booking/create", CreateBookingRequest{
		ListingId:    listingId,
		SessionStart: start,
		SessionEnd:   start + 2*60*60*1000,
	})
	if err != nil {
		t.Fatalf("create booking failed: %v", err)
	}
	AssertSuccess(t, resp, "create booking should succeed")

	var booking BookingInfo
	if err := resp.ParseData(&booking); err != nil {
		t.Fatalf("parse booking failed: %v", err)
	}
	if booking.BookingId == "" {
		t.Fatal("expected non-empty booking_id")
	}
	return booking.BookingId
}

func TestBooking_Create(t *testing.T) {
	tutorId := generateUserId("booking_tutor")
	studentId := generateUserId("booking_student")
	tutorClient, _ := RegisterAndLogin(t, tutorId, "Booking Tutor", "password123")
	studentClient, _ := RegisterAndLogin(t, studentId, "Booking Student", "password123")

	listingId := CreateListingAndGetId(t, tutorClient, "Calculus", 40)

	t.Run("booker and provider are derived from the listing", func(t *testing.T) {
		bookingId := CreateBookingAndGetId(t, studentClient, listingId)

		resp, err := studentClient.GET(fmt.Sprintf("/booking/info?booking_id=%s", bookingId))
		if err != nil {
			t.Fatalf("get booking failed: %v", err)
		}
		AssertSuccess(t, resp, "get booking should succeed")

		var booking BookingInfo
		if err := resp.ParseData(&booking); err != nil {
			t.Fatalf("parse booking failed: %v", err)
		}
		if booking.ProviderId != tutorId {
			t.Errorf("expected provider_id=%s, got %s", tutorId, booking.ProviderId)
		}
		if booking.BookerId != studentId {
			t.Errorf("expected booker_id=%s, got %s", studentId, booking.BookerId)
		}
		if booking.Status != "pending" {
			t.Errorf("expected status=pending, got %s", booking.Status)
		}
		// 2 hours at 40/hour
		if booking.Price != 80 {
			t.Errorf("expected price=80, got %v", booking.Price)
		}
	})

	t.Run("booking against unknown listing fails", func(t *testing.T) {
		start := time.Now().UnixMilli()
		resp, err := studentClient.POST("/booking/create", CreateBookingRequest{
			ListingId:    "no_such_listing",
			SessionStart: start,
			SessionEnd:   start + 60*60*1000,
		})
		if err != nil {
			t.Fatalf("create booking failed: %v", err)
		}
		AssertError(t, resp, 5001, "should return listing not found")
	})

	t.Run("outsider cannot read the booking", func(t *testing.T) {
		bookingId := CreateBookingAndGetId(t, studentClient, listingId)

		outsiderId := generateUserId("booking_outsider")
		outsider, _ := RegisterAndLogin(t, outsiderId, "Booking Outsider", "password123")

		resp, err := outsider.GET(fmt.Sprintf("/booking/info?booking_id=%s", bookingId))
		if err != nil {
			t.Fatalf("get booking failed: %v", err)
		}
		AssertError(t, resp, 1006, "should return no permission")
	})
}

func TestBooking_StatusTransitions(t *testing.T) {
	tutorId := generateUserId("status_tutor")
	studentId := generateUserId("status_student")
	tutorClient, _ := RegisterAndLogin(t, tutorId, "Status Tutor", "password123")
	studentClient, _ := RegisterAndLogin(t, studentId, "Status Student", "password123")

	listingId := CreateListingAndGetId(t, tutorClient, "Geometry", 25)
	bookingId := CreateBookingAndGetId(t, studentClient, listingId)

	t.Run("booker cannot confirm", func(t *testing.T) {
		resp, err := studentClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    "confirmed",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertError(t, resp, 1006, "only the provider may confirm")
	})

	t.Run("provider cannot complete a pending booking", func(t *testing.T) {
		resp, err := tutorClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    "completed",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertError(t, resp, 4005, "pending cannot jump to completed")
	})

	t.Run("provider confirms then completes", func(t *testing.T) {
		resp, err := tutorClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    "confirmed",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertSuccess(t, resp, "confirm should succeed")

		resp, err = tutorClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    "completed",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertSuccess(t, resp, "complete should succeed")

		var booking BookingInfo
		if err := resp.ParseData(&booking); err != nil {
			t.Fatalf("parse booking failed: %v", err)
		}
		if booking.Status != "completed" {
			t.Errorf("expected status=completed, got %s", booking.Status)
		}
	})

	t.Run("completed booking cannot change anymore", func(t *testing.T) {
		resp, err := tutorClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    "cancelled",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertError(t, resp, 4005, "completed is terminal")
	})

	t.Run("booker may cancel a pending booking", func(t *testing.T) {
		otherBookingId := CreateBookingAndGetId(t, studentClient, listingId)

		resp, err := studentClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: otherBookingId,
			Status:    "cancelled",
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertSuccess(t, resp, "booker cancel should succeed")
	})
}

func TestBooking_Payment(t *testing.T) {
	tutorId := generateUserId("pay_tutor")
	studentId := generateUserId("pay_student")
	tutorClient, _ := RegisterAndLogin(t, tutorId, "Pay Tutor", "password123")
	studentClient, _ := RegisterAndLogin(t, studentId, "Pay Student", "password123")

	listingId := CreateListingAndGetId(t, tutorClient, "Statistics", 50)
	bookingId := CreateBookingAndGetId(t, studentClient, listingId)

	t.Run("provider cannot mark paid", func(t *testing.T) {
		resp, err := tutorClient.POST("/booking/pay", PaymentRequest{BookingId: bookingId})
		if err != nil {
			t.Fatalf("pay failed: %v", err)
		}
		AssertError(t, resp, 1006, "only the booker pays")
	})

	t.Run("provider cannot confirm before payment", func(t *testing.T) {
		resp, err := tutorClient.POST("/booking/confirm_payment", PaymentRequest{BookingId: bookingId})
		if err != nil {
			t.Fatalf("confirm payment failed: %v", err)
		}
		AssertError(t, resp, 4002, "nothing to confirm yet")
	})

	t.Run("booker pays then provider confirms", func(t *testing.T) {
		resp, err := studentClient.POST("/booking/pay", PaymentRequest{BookingId: bookingId})
		if err != nil {
			t.Fatalf("pay failed: %v", err)
		}
		AssertSuccess(t, resp, "pay should succeed")

		var booking BookingInfo
		if err := resp.ParseData(&booking); err != nil {
			t.Fatalf("parse booking failed: %v", err)
		}
		if booking.PaymentStatus != "paid" {
			t.Errorf("expected payment_status=paid, got %s", booking.PaymentStatus)
		}

		resp, err = tutorClient.POST("/booking/confirm_payment", PaymentRequest{BookingId: bookingId})
		if err != nil {
			t.Fatalf("confirm payment failed: %v", err)
		}
		AssertSuccess(t, resp, "confirm payment should succeed")

		if err := resp.ParseData(&booking); err != nil {
			t.Fatalf("parse booking failed: %v", err)
		}
		if booking.PaymentStatus != "confirmed" {
			t.Errorf("expected payment_status=confirmed, got %s", booking.PaymentStatus)
		}
	})

	t.Run("double payment is rejected", func(t *testing.T) {
		resp, err := studentClient.POST("/booking/pay", PaymentRequest{BookingId: bookingId})
		if err != nil {
			t.Fatalf("pay failed: %v", err)
		}
		AssertError(t, resp, 4002, "already paid")
	})
}

func TestRating_Flow(t *testing.T) {
	tutorId := generateUserId("rating_tutor")
	studentId := generateUserId("rating_student")
	tutorClient, _ := RegisterAndLogin(t, tutorId, "Rating Tutor", "password123")
	studentClient, _ := RegisterAndLogin(t, studentId, "Rating Student", "password123")

	listingId := CreateListingAndGetId(t, tutorClient, "Biology", 20)
	bookingId := CreateBookingAndGetId(t, studentClient, listingId)

	t.Run("rating before completion is rejected", func(t *testing.T) {
		resp, err := studentClient.POST("/rating/create", CreateRatingRequest{
			BookingId: bookingId,
			Stars:     5,
		})
		if err != nil {
			t.Fatalf("create rating failed: %v", err)
		}
		AssertError(t, resp, 6002, "booking not completed yet")
	})

	// Complete the booking
	for _, status := range []string{"confirmed", "completed"} {
		resp, err := tutorClient.POST("/booking/status", UpdateBookingStatusRequest{
			BookingId: bookingId,
			Status:    status,
		})
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		AssertSuccess(t, resp, "status update should succeed")
	}

	t.Run("student rates the tutor", func(t *testing.T) {
		resp, err := studentClient.POST("/rating/create", CreateRatingRequest{
			BookingId: bookingId,
			Stars:     5,
			Comment:   "Great explanations",
		})
		if err != nil {
			t.Fatalf("create rating failed: %v", err)
		}
		AssertSuccess(t, resp, "create rating should succeed")

		var rating RatingInfo
		if err := resp.ParseData(&rating); err != nil {
			t.Fatalf("parse rating failed: %v", err)
		}
		if rating.RatedUserId != tutorId {
			t.Errorf("expected rated_user_id=%s, got %s", tutorId, rating.RatedUserId)
		}
	})

	t.Run("same booking cannot be rated twice by the same user", func(t *testing.T) {
		resp, err := studentClient.POST("/rating/create", CreateRatingRequest{
			BookingId: bookingId,
			Stars:     4,
		})
		if err != nil {
			t.Fatalf("create rating failed: %v", err)
		}
		AssertError(t, resp, 6003, "should return already rated")
	})

	t.Run("tutor rates the student back", func(t *testing.T) {
		resp, err := tutorClient.POST("/rating/create", CreateRatingRequest{
			BookingId: bookingId,
			Stars:     4,
			Comment:   "Attentive student",
		})
		if err != nil {
			t.Fatalf("create rating failed: %v", err)
		}
		AssertSuccess(t, resp, "create rating should succeed")

		var rating RatingInfo
		if err := resp.ParseData(&rating); err != nil {
			t.Fatalf("parse rating failed: %v", err)
		}
		if rating.RatedUserId != studentId {
			t.Errorf("expected rated_user_id=%s, got %s", studentId, rating.RatedUserId)
		}
	})

	t.Run("ratings show up on the tutor profile", func(t *testing.T) {
		resp, err := studentClient.GET("/rating/user/" + tutorId)
		if err != nil {
			t.Fatalf("get user ratings failed: %v", err)
		}
		AssertSuccess(t, resp, "get user ratings should succeed")

		var ratings []RatingInfo
		if err := resp.ParseData(&ratings); err != nil {
			t.Fatalf("parse ratings failed: %v", err)
		}
		if len(ratings) != 1 {
			t.Fatalf("expected 1 rating, got %d", len(ratings))
		}
		if ratings[0].Stars != 5 {
			t.Errorf("expected stars=5, got %d", ratings[0].Stars)
		}

		profileResp, err := studentClient.GET("/user/profile/" + tutorId)
		if err != nil {
			t.Fatalf("get profile failed: %v", err)
		}
		AssertSuccess(t, profileResp, "get profile should succeed")

		var profile struct {
			UserInfo
			AvgRating   float64 `json:"avg_rating"`
			RatingCount int64   `json:"rating_count"`
		}
		if err := profileResp.ParseData(&profile); err != nil {
			t.Fatalf("parse profile failed: %v", err)
		}
		if profile.RatingCount != 1 {
			t.Errorf("expected rating_count=1, got %d", profile.RatingCount)
		}
		if profile.AvgRating != 5 {
			t.Errorf("expected avg_rating=5, got %v", profile.AvgRating)
		}
	})
}
