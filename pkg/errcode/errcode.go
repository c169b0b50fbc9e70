package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam   = New(1001, "invalid parameter")
	ErrInternalServer = New(1002, "internal server error")
	ErrUnauthorized   = New(1003, "unauthorized")
	ErrForbidden      = New(1004, "forbidden")
	ErrNotFound       = New(1005, "not found")
	ErrNoPermission   = New(1006, "no permission to access this resource")

	// Auth errors (2xxx)
	ErrTokenInvalid  = New(2001, "token invalid")
	ErrTokenExpired  = New(2002, "token expired")
	ErrTokenMissing  = New(2003, "token missing")
	ErrTokenMismatch = New(2004, "token user mismatch")
	ErrLoginFailed   = New(2005, "login failed")
	ErrUserNotFound  = New(2006, "user not found")
	ErrUserExists    = New(2007, "user already exists")
	ErrPasswordWrong = New(2008, "password wrong")

	// Conversation errors (3xxx)
	ErrConvNotFound     = New(3001, "conversation not found")
	ErrSelfConversation = New(3002, "cannot start a conversation with yourself")
	ErrSelfMessage      = New(3003, "sender and receiver must be different users")
	ErrSendFailed       = New(3004, "message send failed")
	ErrOverviewNotFound = New(3005, "conversation overview not found")
	ErrSubscribeFailed  = New(3006, "subscription failed")

	// Booking errors (4xxx)
	ErrBookingNotFound     = New(4001, "booking not found")
	ErrBookingInvalid      = New(4002, "invalid booking")
	ErrDeleteBlocked       = New(4003, "cannot delete conversation: active booking exists between participants")
	ErrBookingCheckFailed  = New(4004, "booking check failed")
	ErrBadStatusTransition = New(4005, "invalid booking status transition")

	// Listing errors (5xxx)
	ErrListingNotFound = New(5001, "listing not found")
	ErrListingInvalid  = New(5002, "invalid listing")

	// Rating errors (6xxx)
	ErrRatingNotFound = New(6001, "rating not found")
	ErrRatingInvalid  = New(6002, "invalid rating")
	ErrAlreadyRated   = New(6003, "booking already rated by this user")

	// WebSocket errors (7xxx)
	ErrConnOverLimit   = New(7001, "connection over max limit")
	ErrConnClosed      = New(7002, "connection closed")
	ErrInvalidProtocol = New(7003, "invalid protocol")
	ErrPushFailed      = New(7004, "push message failed")
)
