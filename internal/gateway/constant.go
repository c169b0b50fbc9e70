package gateway

import "time"

// WebSocket protocol constants
const (
	// Request identifiers
	WSWatchConv   = 1001 // Start streaming a conversation's messages
	WSUnwatchConv = 1002 // Stop streaming a conversation's messages
	WSSendMsg     = 1003 // Send message
	WSMarkRead    = 1004 // Reset unread count for a conversation

	// Push identifiers
	WSPushMessages  = 2001 // Server push: current message list of a watched conversation
	WSPushOverviews = 2002 // Server push: current overview list of the user
	WSKickOnlineMsg = 2003 // Kick user offline
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// Query parameter keys
const (
	QueryToken      = "token"
	QuerySendId     = "send_id"
	QueryPlatformId = "platform_id"
)
