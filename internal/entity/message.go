package entity

import (
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
)

// Message is one chat message inside a conversation. Messages are
// immutable once written: they are appended to the conversation's log and
// removed only when the whole conversation is deleted.
type Message struct {
	MsgId      string `json:"msg_id" bson:"msg_id"`
	ConvId     string `json:"conv_id,omitempty" bson:"conv_id,omitempty"`
	SenderId   string `json:"sender_id" bson:"sender_id"`
	ReceiverId string `json:"receiver_id" bson:"receiver_id"`
	Content    string `json:"content" bson:"content"` // may be empty for system messages
	CreatedAt  int64  `json:"created_at" bson:"created_at"`
}

// Validate checks the message invariants before any write
func (m *Message) Validate() error {
	if m.SenderId == "" || m.ReceiverId == "" {
		return errcode.ErrInvalidParam
	}
	if m.SenderId == m.ReceiverId {
		return errcode.ErrSelfMessage
	}
	return nil
}

// IsSystem reports whether the message was generated by the server itself
func (m *Message) IsSystem() bool {
	return m.SenderId == constant.SystemUserId
}

// NewDeletedTombstone builds the synthetic message placed into the
// remaining participant's overview when the other side deletes the
// conversation.
func NewDeletedTombstone(receiverId string) Message {
	return Message{
		MsgId:      constant.DeletedSystemMsgId,
		SenderId:   constant.SystemUserId,
		ReceiverId: receiverId,
		Content:    constant.ConversationDeletedText,
		CreatedAt:  NowUnixMilli(),
	}
}
