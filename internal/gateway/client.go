package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// Client represents a connected WebSocket client. Besides answering
// one-shot requests it owns the live subscriptions feeding the
// connection: one overview stream for the whole session and one message
// stream per watched conversation.
type Client struct {
	mu         sync.Mutex
	conn       ClientConn
	UserId     string
	PlatformId int
	Token      string
	ConnId     string
	server     *WsServer
	closed     atomic.Bool
	closedErr  error
	ctx        context.Context
	cancel     context.CancelFunc

	watchMu  sync.Mutex
	watching map[string]context.CancelFunc // convId -> stream cancel
}

// NewClient creates a new client
func NewClient(conn ClientConn, userId string, platformId int, token, connId string, server *WsServer) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		conn:       conn,
		UserId:     userId,
		PlatformId: platformId,
		Token:      token,
		ConnId:     connId,
		server:     server,
		ctx:        ctx,
		cancel:     cancel,
		watching:   make(map[string]context.CancelFunc),
	}
}

// Start begins the overview stream and blocks in the read loop until the
// connection drops
func (c *Client) Start() {
	go c.overviewLoop()
	c.readLoop()
}

// readLoop continuously reads messages from the connection
func (c *Client) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			c.closedErr = ErrPanic
			log.CtxError(c.ctx, "client read loop panic: user_id=%s, error=%v", c.UserId, r)
		}
		c.close()
	}()

	for {
		message, err := c.conn.ReadMessage()
		if err != nil {
			log.CtxDebug(c.ctx, "read message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}

		if c.closed.Load() {
			c.closedErr = ErrConnClosed
			return
		}

		if err := c.handleMessage(message); err != nil {
			log.CtxWarn(c.ctx, "handle message error: user_id=%s, error=%v", c.UserId, err)
			c.closedErr = err
			return
		}
	}
}

// handleMessage handles a single incoming message
func (c *Client) handleMessage(message []byte) error {
	var req WSRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return c.replyError(&req, ErrInvalidProtocol)
	}

	if req.SendId != "" && req.SendId != c.UserId {
		return c.replyError(&req, ErrUserIdMismatch)
	}

	log.CtxDebug(c.ctx, "received message: req_identifier=%d, user_id=%s", req.ReqIdentifier, c.UserId)

	var resp []byte
	var err error

	switch req.ReqIdentifier {
	case WSWatchConv:
		resp, err = c.handleWatchConv(&req)
	case WSUnwatchConv:
		resp, err = c.handleUnwatchConv(&req)
	case WSSendMsg:
		resp, err = c.server.HandleSendMsg(c.ctx, c, &req)
	case WSMarkRead:
		resp, err = c.server.HandleMarkRead(c.ctx, c, &req)
	default:
		return c.replyError(&req, ErrInvalidProtocol)
	}

	return c.reply(&req, err, resp)
}

// handleWatchConv starts streaming a conversation's message list to the
// client. Watching an already watched conversation is a no-op.
func (c *Client) handleWatchConv(req *WSRequest) ([]byte, error) {
	var watchReq WatchConvReq
	if err := json.Unmarshal(req.Data, &watchReq); err != nil || watchReq.ConvId == "" {
		return nil, ErrInvalidProtocol
	}

	if err := c.server.manager.CheckParticipant(c.ctx, watchReq.ConvId, c.UserId); err != nil {
		return nil, err
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if _, ok := c.watching[watchReq.ConvId]; ok {
		return nil, nil
	}

	streamCtx, cancel := context.WithCancel(c.ctx)
	stream, err := c.server.manager.ListenMessages(streamCtx, watchReq.ConvId)
	if err != nil {
		cancel()
		return nil, err
	}

	c.watching[watchReq.ConvId] = cancel
	go c.messageLoop(watchReq.ConvId, stream)

	return nil, nil
}

// handleUnwatchConv stops a conversation's message stream
func (c *Client) handleUnwatchConv(req *WSRequest) ([]byte, error) {
	var watchReq WatchConvReq
	if err := json.Unmarshal(req.Data, &watchReq); err != nil || watchReq.ConvId == "" {
		return nil, ErrInvalidProtocol
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if cancel, ok := c.watching[watchReq.ConvId]; ok {
		cancel()
		delete(c.watching, watchReq.ConvId)
	}
	return nil, nil
}

// messageLoop forwards every version of a watched conversation's message
// list to the client until the stream ends
func (c *Client) messageLoop(convId string, stream <-chan []*entity.Message) {
	for messages := range stream {
		data, err := json.Marshal(&MessagesPush{ConvId: convId, Messages: messages})
		if err != nil {
			log.CtxWarn(c.ctx, "marshal messages push failed: conv_id=%s, error=%v", convId, err)
			continue
		}
		if err := c.push(WSPushMessages, data); err != nil {
			log.CtxDebug(c.ctx, "push messages failed: user_id=%s, conv_id=%s, error=%v", c.UserId, convId, err)
		}
	}
}

// overviewLoop forwards every version of the user's overview list to the
// client until the connection closes
func (c *Client) overviewLoop() {
	stream, err := c.server.manager.ListenOverviews(c.ctx, c.UserId)
	if err != nil {
		log.CtxWarn(c.ctx, "listen overviews failed: user_id=%s, error=%v", c.UserId, err)
		return
	}

	for overviews := range stream {
		data, err := json.Marshal(&OverviewsPush{Overviews: overviews})
		if err != nil {
			log.CtxWarn(c.ctx, "marshal overviews push failed: user_id=%s, error=%v", c.UserId, err)
			continue
		}
		if err := c.push(WSPushOverviews, data); err != nil {
			log.CtxDebug(c.ctx, "push overviews failed: user_id=%s, error=%v", c.UserId, err)
		}
	}
}

// push sends a server-initiated frame to the client
func (c *Client) push(identifier int32, data []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	return c.writeResponse(WSResponse{
		ReqIdentifier: identifier,
		Data:          data,
	})
}

// reply sends a response to the client
func (c *Client) reply(req *WSRequest, err error, data []byte) error {
	resp := WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		Data:          data,
	}

	if err != nil {
		if e, ok := err.(*errcode.Error); ok {
			resp.ErrCode = e.Code
			resp.ErrMsg = e.Msg
		} else {
			resp.ErrCode = 1
			resp.ErrMsg = err.Error()
		}
	}

	return c.writeResponse(resp)
}

// replyError sends an error response
func (c *Client) replyError(req *WSRequest, err error) error {
	return c.writeResponse(WSResponse{
		ReqIdentifier: req.ReqIdentifier,
		MsgIncr:       req.MsgIncr,
		ErrCode:       1,
		ErrMsg:        err.Error(),
	})
}

// writeResponse writes a response to the connection
func (c *Client) writeResponse(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return c.conn.WriteMessage(data)
}

// KickOnline sends kick message and closes connection
func (c *Client) KickOnline() error {
	c.writeResponse(WSResponse{ReqIdentifier: WSKickOnlineMsg})
	return c.Close()
}

// Close closes the client connection and cancels all its streams
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil
	}

	c.closed.Store(true)
	c.cancel()
	return c.conn.Close()
}

// close handles cleanup when connection is closed
func (c *Client) close() {
	c.Close()
	c.server.UnregisterClient(c)
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
