package handler

import (
	"context"
	"strings"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/middleware"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req service.RegisterRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	userInfo, err := h.authService.Register(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, userInfo)
}

// Login handles user login
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req service.LoginRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// Logout handles user logout
func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	token := strings.TrimPrefix(string(c.GetHeader(middleware.AuthorizationHeader)), middleware.BearerPrefix)
	platformId := middleware.GetPlatformId(c)

	if err := h.authService.Logout(ctx, userId, platformId, token); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
