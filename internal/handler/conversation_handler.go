package handler

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/middleware"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	manager *service.ConversationManager
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(manager *service.ConversationManager) *ConversationHandler {
	return &ConversationHandler{manager: manager}
}

// CreateConversationRequest represents create conversation request
type CreateConversationRequest struct {
	OtherUserId string `json:"other_user_id"`
	Name        string `json:"name"`
}

// CreateConversation handles create conversation request
func (h *ConversationHandler) CreateConversation(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req CreateConversationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.OtherUserId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.OtherUserId == userId {
		response.ErrorWithCode(ctx, c, errcode.ErrSelfConversation)
		return
	}

	convId, err := h.manager.CreateConversation(ctx, userId, req.OtherUserId, req.Name)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conv_id": convId,
	})
}

// GetOverviewList handles get conversation overview list request
func (h *ConversationHandler) GetOverviewList(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	overviews, err := h.manager.GetOverviewsForUser(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, overviews)
}

// GetConversation handles get single conversation request
func (h *ConversationHandler) GetConversation(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	convId := c.Query("conv_id")
	if convId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.manager.GetConversation(ctx, convId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	if !conv.HasParticipant(userId) {
		response.ErrorWithCode(ctx, c, errcode.ErrNoPermission)
		return
	}

	response.Success(ctx, c, conv)
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConvId     string `json:"conv_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessage handles send message request
func (h *ConversationHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.ConvId == "" || req.Content == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg := &entity.Message{
		MsgId:      h.manager.NewMessageId(),
		SenderId:   userId,
		ReceiverId: req.ReceiverId,
		Content:    req.Content,
		CreatedAt:  entity.NowUnixMilli(),
	}

	if err := h.manager.SendMessage(ctx, req.ConvId, msg); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, msg)
}

// DeleteConversation handles delete conversation request. The caller is
// the deleter; the peer is resolved from the caller's overview row, or
// from the conversation itself when the row is already gone.
func (h *ConversationHandler) DeleteConversation(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	convId := c.Query("conv_id")
	if convId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	otherId, err := h.resolvePeer(ctx, convId, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := h.manager.DeleteConversation(ctx, convId, userId, otherId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}

func (h *ConversationHandler) resolvePeer(ctx context.Context, convId, userId string) (string, error) {
	overviews, err := h.manager.GetOverviewsForUser(ctx, userId)
	if err != nil {
		return "", err
	}
	for _, ov := range overviews {
		if ov.LinkedConvId == convId {
			return ov.PeerId, nil
		}
	}

	conv, err := h.manager.GetConversation(ctx, convId)
	if err != nil {
		return "", err
	}
	if !conv.HasParticipant(userId) {
		return "", errcode.ErrNoPermission
	}
	return conv.OtherParticipant(userId), nil
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConvId string `json:"conv_id"`
}

// MarkRead handles mark conversation as read request
func (h *ConversationHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.ConvId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.manager.ResetUnread(ctx, req.ConvId, userId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
