package sdk

// Response is the standard API response envelope
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// RegisterRequest represents user registration request
type RegisterRequest struct {
	UserId   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// LoginRequest represents user login request
type LoginRequest struct {
	UserId     string `json:"user_id"`
	Password   string `json:"password"`
	PlatformId int    `json:"platform_id"`
}

// LoginResponse represents user login response
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"user_info"`
}

// UserInfo represents public user info
type UserInfo struct {
	Id        string `json:"id"`
	Nickname  string `json:"nickname"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	CreatedAt int64  `json:"created_at"`
}

// UserProfile is public user info with rating summary
type UserProfile struct {
	UserInfo
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int64   `json:"rating_count"`
}

// UpdateUserRequest represents user update request
type UpdateUserRequest struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Message represents one chat message
type Message struct {
	MsgId      string `json:"msg_id"`
	ConvId     string `json:"conv_id,omitempty"`
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"`
}

// Conversation represents a conversation with its message log
type Conversation struct {
	ConvId    string     `json:"conv_id"`
	CreatorId string     `json:"creator_id"`
	PeerId    string     `json:"peer_id"`
	Name      string     `json:"name"`
	CreatedAt int64      `json:"created_at"`
	Messages  []*Message `json:"messages"`
}

// ConversationOverview is the per-viewer conversation list entry
type ConversationOverview struct {
	OverviewId   string  `json:"overview_id"`
	LinkedConvId string  `json:"linked_conv_id"`
	Name         string  `json:"name"`
	LastMsg      Message `json:"last_msg"`
	UnreadCount  int64   `json:"unread_count"`
	OwnerId      string  `json:"owner_id"`
	PeerId       string  `json:"peer_id"`
}

// IsTombstone reports whether the entry marks a deleted conversation
func (o *ConversationOverview) IsTombstone() bool {
	return o.LastMsg.SenderId == SystemUserId
}

// CreateConversationRequest represents create conversation request
type CreateConversationRequest struct {
	OtherUserId string `json:"other_user_id"`
	Name        string `json:"name"`
}

// CreateConversationResponse represents create conversation response
type CreateConversationResponse struct {
	ConvId string `json:"conv_id"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConvId     string `json:"conv_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConvId string `json:"conv_id"`
}

// Listing represents a marketplace listing
type Listing struct {
	ListingId   string  `json:"listing_id"`
	CreatorId   string  `json:"creator_id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subject     string  `json:"subject"`
	HourlyRate  float64 `json:"hourly_rate"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// CreateListingRequest represents listing creation request
type CreateListingRequest struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Subject     string  `json:"subject"`
	HourlyRate  float64 `json:"hourly_rate"`
}

// UpdateListingRequest represents listing update request
type UpdateListingRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
}

// Booking represents a session booking
type Booking struct {
	BookingId     string  `json:"booking_id"`
	ListingId     string  `json:"listing_id"`
	ProviderId    string  `json:"provider_id"`
	BookerId      string  `json:"booker_id"`
	SessionStart  int64   `json:"session_start"`
	SessionEnd    int64   `json:"session_end"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Price         float64 `json:"price"`
	CreatedAt     int64   `json:"created_at"`
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

// PaymentRequest represents a payment action request
type PaymentRequest struct {
	BookingId string `json:"booking_id"`
}

// Rating represents a rating left after a completed booking
type Rating struct {
	RatingId    string `json:"rating_id"`
	BookingId   string `json:"booking_id"`
	RaterId     string `json:"rater_id"`
	RatedUserId string `json:"rated_user_id"`
	Stars       int    `json:"stars"`
	Comment     string `json:"comment"`
	CreatedAt   int64  `json:"created_at"`
}

// CreateRatingRequest represents rating creation request
type CreateRatingRequest struct {
	BookingId string `json:"booking_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
}
