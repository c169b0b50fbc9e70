package sdk

// Listing kinds
const (
	ListingKindProposal = "proposal"
	ListingKindRequest  = "request"
)

// Booking status
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status
const (
	PaymentStatusPending   = "pending_payment"
	PaymentStatusPaid      = "paid"
	PaymentStatusConfirmed = "confirmed"
)

// Platform Ids
const (
	PlatformIdUnknown = 0
	PlatformIdIOS     = 1
	PlatformIdAndroid = 2
	PlatformIdWeb     = 3
)

// System sender of synthetic messages, e.g. the "Conversation deleted"
// tombstone
const (
	SystemUserId       = "system"
	DeletedSystemMsgId = "deleted-system-msg"
)

// WebSocket request identifiers
const (
	WSWatchConv   = 1001
	WSUnwatchConv = 1002
	WSSendMsg     = 1003
	WSMarkRead    = 1004
)

// WebSocket push identifiers
const (
	WSPushMessages  = 2001
	WSPushOverviews = 2002
	WSKickOnlineMsg = 2003
)
