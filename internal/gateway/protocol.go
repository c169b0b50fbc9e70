package gateway

import (
	"encoding/json"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
)

// WSRequest represents a WebSocket request message
type WSRequest struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type
	MsgIncr       string          `json:"msg_incr"`       // Client message counter/trace Id
	SendId        string          `json:"send_id"`        // Sender user Id
	Data          json.RawMessage `json:"data"`           // Business data
}

// WSResponse represents a WebSocket response message
type WSResponse struct {
	ReqIdentifier int32           `json:"req_identifier"` // Request type (echo back)
	MsgIncr       string          `json:"msg_incr"`       // Message counter (echo back)
	ErrCode       int             `json:"err_code"`       // Error code, 0 = success
	ErrMsg        string          `json:"err_msg"`        // Error message
	Data          json.RawMessage `json:"data"`           // Response data
}

// WatchConvReq asks the server to stream a conversation's message list
type WatchConvReq struct {
	ConvId string `json:"conv_id"`
}

// SendMsgReq represents send message request data
type SendMsgReq struct {
	ConvId     string `json:"conv_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMsgResp represents send message response data
type SendMsgResp struct {
	MsgId  string `json:"msg_id"`
	ConvId string `json:"conv_id"`
	SendAt int64  `json:"send_at"`
}

// MarkReadReq represents mark read request data
type MarkReadReq struct {
	ConvId string `json:"conv_id"`
}

// MessagesPush carries the full current message list of a watched
// conversation
type MessagesPush struct {
	ConvId   string            `json:"conv_id"`
	Messages []*entity.Message `json:"messages"`
}

// OverviewsPush carries the full current overview list of the connected
// user
type OverviewsPush struct {
	Overviews []*entity.ConversationOverview `json:"overviews"`
}
