package constant

// Listing kinds
const (
	ListingKindProposal = "proposal" // tutor offers a course
	ListingKindRequest  = "request"  // student asks for help
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

// Rating bounds
const (
	RatingMinStars = 1
	RatingMaxStars = 5
)

// System sender used for synthetic messages written by the server itself,
// e.g. the tombstone left in the peer's overview after a deletion.
const (
	SystemUserId            = "system"
	DeletedSystemMsgId      = "deleted-system-msg"
	ConversationDeletedText = "Conversation deleted"
)

// Mongo collection names for the chat store
const (
	CollConversations = "conversations"
	CollMessages      = "messages"
	CollOverviews     = "conversation_overviews"
)

// Platform Ids
const (
	PlatformIdUnknown = 0
	PlatformIdIOS     = 1
	PlatformIdAndroid = 2
	PlatformIdWeb     = 3
)

// Redis key patterns (without prefix, use the getters to obtain full keys)
const (
	redisKeyToken        = "token:%s:%d"  // token:{user_id}:{platform_id}
	redisKeyOnline       = "online:%s"    // online:{user_id}
	redisChanConvMsgs    = "chan:conv:%s" // chan:conv:{conv_id}
	redisChanUserOvViews = "chan:ov:%s"   // chan:ov:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "skillbridge:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string          { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string         { return redisKeyPrefix + redisKeyOnline }
func RedisChanConvMessages() string  { return redisKeyPrefix + redisChanConvMsgs }
func RedisChanUserOverviews() string { return redisKeyPrefix + redisChanUserOvViews }
