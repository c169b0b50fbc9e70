package gateway

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/config"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// WsServer is the WebSocket gateway. It carries no domain state of its
// own: requests go to the conversation manager and pushes come from the
// manager's Listen streams.
type WsServer struct {
	cfg            *config.Config
	userMap        *UserMap
	registerChan   chan *Client
	unregisterChan chan *Client
	manager        *service.ConversationManager
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// NewWsServer creates a new WebSocket gateway
func NewWsServer(cfg *config.Config, rdb *redis.Client, manager *service.ConversationManager) *WsServer {
	return &WsServer{
		cfg:            cfg,
		userMap:        NewUserMap(rdb),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		manager:        manager,
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}
}

// Run starts the gateway event loop
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	existingClients, exists := s.userMap.GetAll(client.UserId)
	if !exists {
		s.onlineUserNum.Add(1)
	}

	s.userMap.Register(ctx, client)
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: user_id=%s, platform_id=%d, conn_id=%s, existing_conns=%d, online_users=%d, online_conns=%d",
		client.UserId, client.PlatformId, client.ConnId, len(existingClients), s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	isUserOffline := s.userMap.Unregister(ctx, client)
	s.onlineConnNum.Add(-1)

	if isUserOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%s, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.ConnId, isUserOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// HandleConnection handles a WebSocket connection from Hertz
func (s *WsServer) HandleConnection(ctx context.Context, c *app.RequestContext, upgrader *websocket.HertzUpgrader) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		c.String(503, "connection limit exceeded")
		return
	}

	token := string(c.Query(QueryToken))
	sendId := string(c.Query(QuerySendId))
	platformIdStr := string(c.Query(QueryPlatformId))

	if token == "" || sendId == "" {
		c.String(400, "missing required parameters")
		return
	}

	platformId := 0
	if platformIdStr != "" {
		platformId, _ = strconv.Atoi(platformIdStr)
	}

	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, sendId, platformId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		c.String(401, "unauthorized")
		return
	}

	err = upgrader.Upgrade(c, func(conn *websocket.Conn) {
		connId := uuid.New().String()
		wsConn := NewWsClientConn(conn, s.cfg.WebSocket.MaxMessageSize, s.cfg.WebSocket.WriteChannelSize,
			s.cfg.WebSocket.WriteWait, s.cfg.WebSocket.PongWait, s.cfg.WebSocket.PingPeriod)
		client := NewClient(wsConn, claims.UserId, claims.PlatformId, token, connId, s)

		s.registerChan <- client

		// Blocks until the connection drops
		client.Start()
	})

	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}
}

// OnlineUserCount returns online user count
func (s *WsServer) OnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// OnlineConnCount returns online connection count
func (s *WsServer) OnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// HandleSendMsg handles send message request over the socket
func (s *WsServer) HandleSendMsg(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}
	if sendReq.ConvId == "" || sendReq.Content == "" {
		return nil, errcode.ErrInvalidParam
	}

	msg := &entity.Message{
		MsgId:      s.manager.NewMessageId(),
		SenderId:   client.UserId,
		ReceiverId: sendReq.ReceiverId,
		Content:    sendReq.Content,
		CreatedAt:  entity.NowUnixMilli(),
	}

	if err := s.manager.SendMessage(ctx, sendReq.ConvId, msg); err != nil {
		return nil, err
	}

	resp := SendMsgResp{
		MsgId:  msg.MsgId,
		ConvId: sendReq.ConvId,
		SendAt: msg.CreatedAt,
	}
	return json.Marshal(resp)
}

// HandleMarkRead handles mark read request over the socket
func (s *WsServer) HandleMarkRead(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var markReq MarkReadReq
	if err := json.Unmarshal(req.Data, &markReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}
	if markReq.ConvId == "" {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.manager.ResetUnread(ctx, markReq.ConvId, client.UserId); err != nil {
		return nil, err
	}
	return nil, nil
}
