package entity

// ConversationOverview is the per-viewer projection of a conversation:
// one row per (conversation, owner) pair, caching the display name, the
// most recent message and the owner's unread count. For every live
// conversation exactly two rows exist, one per participant. Rows are
// replaced wholesale on update, never patched field by field.
type ConversationOverview struct {
	OverviewId   string  `json:"overview_id" bson:"overview_id"`
	LinkedConvId string  `json:"linked_conv_id" bson:"linked_conv_id"`
	Name         string  `json:"name" bson:"name"`
	LastMsg      Message `json:"last_msg" bson:"last_msg"`
	UnreadCount  int64   `json:"unread_count" bson:"unread_count"`
	OwnerId      string  `json:"owner_id" bson:"owner_id"`
	PeerId       string  `json:"peer_id" bson:"peer_id"`
}

// WithLastMsg returns a copy with a new last message and unread count
func (o ConversationOverview) WithLastMsg(msg Message, unread int64) ConversationOverview {
	o.LastMsg = msg
	o.UnreadCount = unread
	return o
}

// IsTombstone reports whether the row marks a deleted conversation
func (o *ConversationOverview) IsTombstone() bool {
	return o.LastMsg.IsSystem()
}
