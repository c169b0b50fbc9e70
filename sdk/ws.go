package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSFrame mirrors the gateway's wire frame
type WSFrame struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr"`
	SendId        string          `json:"send_id,omitempty"`
	ErrCode       int             `json:"err_code,omitempty"`
	ErrMsg        string          `json:"err_msg,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// MessagesPush carries a watched conversation's current message list
type MessagesPush struct {
	ConvId   string     `json:"conv_id"`
	Messages []*Message `json:"messages"`
}

// OverviewsPush carries the user's current overview list
type OverviewsPush struct {
	Overviews []*ConversationOverview `json:"overviews"`
}

// WSClient is a live-stream client for the gateway. The server pushes
// the user's overview list on every change; watched conversations
// additionally stream their message lists.
type WSClient struct {
	conn    *websocket.Conn
	userId  string
	msgIncr atomic.Int64

	mu      sync.Mutex
	pending map[string]chan *WSFrame
	closed  bool

	// OnMessages is invoked with each pushed message list version of a
	// watched conversation. Set before calling Run.
	OnMessages func(push *MessagesPush)
	// OnOverviews is invoked with each pushed overview list version.
	// Set before calling Run.
	OnOverviews func(push *OverviewsPush)
	// OnKicked is invoked when the server kicks this connection.
	OnKicked func()
}

// DialWS connects to the gateway WebSocket endpoint. baseURL is the
// plain server address, e.g. "ws://localhost:8080".
func DialWS(ctx context.Context, baseURL, token, userId string, platformId int) (*WSClient, error) {
	query := url.Values{}
	query.Set("token", token)
	query.Set("send_id", userId)
	query.Set("platform_id", strconv.Itoa(platformId))

	wsURL := baseURL + "/ws?" + query.Encode()
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	return &WSClient{
		conn:    conn,
		userId:  userId,
		pending: make(map[string]chan *WSFrame),
	}, nil
}

// Run reads frames until the connection closes. Run it in its own
// goroutine; it returns the read error that ended the loop.
func (w *WSClient) Run() error {
	defer w.Close()
	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame WSFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		switch frame.ReqIdentifier {
		case WSPushMessages:
			if w.OnMessages != nil {
				var push MessagesPush
				if err := json.Unmarshal(frame.Data, &push); err == nil {
					w.OnMessages(&push)
				}
			}
		case WSPushOverviews:
			if w.OnOverviews != nil {
				var push OverviewsPush
				if err := json.Unmarshal(frame.Data, &push); err == nil {
					w.OnOverviews(&push)
				}
			}
		case WSKickOnlineMsg:
			if w.OnKicked != nil {
				w.OnKicked()
			}
			return nil
		default:
			w.dispatchReply(&frame)
		}
	}
}

func (w *WSClient) dispatchReply(frame *WSFrame) {
	w.mu.Lock()
	ch, ok := w.pending[frame.MsgIncr]
	if ok {
		delete(w.pending, frame.MsgIncr)
	}
	w.mu.Unlock()

	if ok {
		ch <- frame
	}
}

// call sends a request frame and waits for its reply
func (w *WSClient) call(ctx context.Context, identifier int32, data interface{}) (*WSFrame, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	incr := strconv.FormatInt(w.msgIncr.Add(1), 10)
	frame := WSFrame{
		ReqIdentifier: identifier,
		MsgIncr:       incr,
		SendId:        w.userId,
		Data:          payload,
	}

	raw, err := json.Marshal(frame)
	if err != nil {
		return nil, err
	}

	ch := make(chan *WSFrame, 1)
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, fmt.Errorf("websocket closed")
	}
	w.pending[incr] = ch
	err = w.conn.WriteMessage(websocket.TextMessage, raw)
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		w.mu.Lock()
		delete(w.pending, incr)
		w.mu.Unlock()
		return nil, ctx.Err()
	case reply := <-ch:
		if reply.ErrCode != 0 {
			return nil, &Error{Code: reply.ErrCode, Msg: reply.ErrMsg}
		}
		return reply, nil
	}
}

// WatchConversation starts streaming a conversation's message list
func (w *WSClient) WatchConversation(ctx context.Context, convId string) error {
	_, err := w.call(ctx, WSWatchConv, map[string]string{"conv_id": convId})
	return err
}

// UnwatchConversation stops streaming a conversation's message list
func (w *WSClient) UnwatchConversation(ctx context.Context, convId string) error {
	_, err := w.call(ctx, WSUnwatchConv, map[string]string{"conv_id": convId})
	return err
}

// SendMessage sends a message over the socket
func (w *WSClient) SendMessage(ctx context.Context, convId, receiverId, content string) error {
	req := &SendMessageRequest{
		ConvId:     convId,
		ReceiverId: receiverId,
		Content:    content,
	}
	_, err := w.call(ctx, WSSendMsg, req)
	return err
}

// MarkRead resets the unread count of a conversation over the socket
func (w *WSClient) MarkRead(ctx context.Context, convId string) error {
	_, err := w.call(ctx, WSMarkRead, map[string]string{"conv_id": convId})
	return err
}

// Close closes the connection
func (w *WSClient) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.conn.Close()
}
