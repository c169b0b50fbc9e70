package router

import (
	"context"
	"strings"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/config"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/gateway"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/handler"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/middleware"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Conversation *handler.ConversationHandler
	Listing      *handler.ListingHandler
	Booking      *handler.BookingHandler
	Rating       *handler.RatingHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer) {
	cfg := config.GlobalConfig

	h.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (no auth required)
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/logout", middleware.JWTAuth(), handlers.Auth.Logout)
	}

	// User routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth())
	{
		userGroup.GET("/info", handlers.User.GetUserInfo)
		userGroup.GET("/profile/:user_id", handlers.User.GetUserProfile)
		userGroup.PUT("/update", handlers.User.UpdateUserInfo)
	}

	// Conversation routes (auth required)
	convGroup := h.Group("/conversation", middleware.JWTAuth())
	{
		convGroup.POST("/create", handlers.Conversation.CreateConversation)
		convGroup.GET("/list", handlers.Conversation.GetOverviewList)
		convGroup.GET("/info", handlers.Conversation.GetConversation)
		convGroup.DELETE("/delete", handlers.Conversation.DeleteConversation)
		convGroup.POST("/mark_read", handlers.Conversation.MarkRead)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/msg", middleware.JWTAuth())
	{
		msgGroup.POST("/send", handlers.Conversation.SendMessage)
	}

	// Listing routes (browse is public, mutation requires auth)
	listingGroup := h.Group("/listing")
	{
		listingGroup.GET("/browse", handlers.Listing.BrowseListings)
		listingGroup.GET("/info", handlers.Listing.GetListing)
		listingGroup.POST("/create", middleware.JWTAuth(), handlers.Listing.CreateListing)
		listingGroup.GET("/mine", middleware.JWTAuth(), handlers.Listing.GetMyListings)
		listingGroup.PUT("/update", middleware.JWTAuth(), handlers.Listing.UpdateListing)
		listingGroup.DELETE("/delete", middleware.JWTAuth(), handlers.Listing.DeleteListing)
	}

	// Booking routes (auth required)
	bookingGroup := h.Group("/booking", middleware.JWTAuth())
	{
		bookingGroup.POST("/create", handlers.Booking.CreateBooking)
		bookingGroup.GET("/info", handlers.Booking.GetBooking)
		bookingGroup.GET("/mine", handlers.Booking.GetMyBookings)
		bookingGroup.POST("/status", handlers.Booking.UpdateStatus)
		bookingGroup.POST("/pay", handlers.Booking.MarkPaid)
		bookingGroup.POST("/confirm_payment", handlers.Booking.ConfirmPayment)
	}

	// Rating routes
	ratingGroup := h.Group("/rating")
	{
		ratingGroup.POST("/create", middleware.JWTAuth(), handlers.Rating.CreateRating)
		ratingGroup.GET("/user/:user_id", handlers.Rating.GetUserRatings)
	}

	// WebSocket route with origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// No origin header means same-origin or a non-browser client
	if origin == "" {
		return true
	}

	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}
