package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam   = 1001
	CodeInternalServer = 1002
	CodeUnauthorized   = 1003
	CodeForbidden      = 1004
	CodeNotFound       = 1005
	CodeNoPermission   = 1006

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008

	// Conversation errors (3xxx)
	CodeConvNotFound     = 3001
	CodeSelfConversation = 3002
	CodeSelfMessage      = 3003
	CodeSendFailed       = 3004
	CodeOverviewNotFound = 3005
	CodeSubscribeFailed  = 3006

	// Booking errors (4xxx)
	CodeBookingNotFound     = 4001
	CodeBookingInvalid      = 4002
	CodeDeleteBlocked       = 4003
	CodeBookingCheckFailed  = 4004
	CodeBadStatusTransition = 4005

	// Listing errors (5xxx)
	CodeListingNotFound = 5001
	CodeListingInvalid  = 5002

	// Rating errors (6xxx)
	CodeRatingNotFound = 6001
	CodeRatingInvalid  = 6002
	CodeAlreadyRated   = 6003
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrNoPermission   = NewError(CodeNoPermission, "no permission to access this resource")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrUserNotFound  = NewError(CodeUserNotFound, "user not found")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrConvNotFound  = NewError(CodeConvNotFound, "conversation not found")
	ErrDeleteBlocked = NewError(CodeDeleteBlocked, "cannot delete conversation: active booking exists between participants")
)

// IsCode reports whether err is an API error with the given code
func IsCode(err error, code int) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Code == code
}
