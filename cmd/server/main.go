package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/config"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/gateway"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/handler"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/repository"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/router"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/service"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"
)

func main() {
	ctx := context.TODO()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connections established")

	// Services
	authService := service.NewAuthService(repos.User, cfg, repos.Redis)
	userService := service.NewUserService(repos.User, repos.Rating)
	listingService := service.NewListingService(repos.Listing)
	bookingService := service.NewBookingService(repos.Booking, repos.Listing)
	ratingService := service.NewRatingService(repos.Rating, repos.Booking)

	// The booking service guards conversation deletion
	manager := service.NewConversationManager(repos.Conversation, repos.Overview, bookingService)

	// WebSocket gateway
	wsServer := gateway.NewWsServer(cfg, repos.Redis, manager)
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket gateway started")

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Conversation: handler.NewConversationHandler(manager),
		Listing:      handler.NewListingHandler(listingService),
		Booking:      handler.NewBookingHandler(bookingService),
		Rating:       handler.NewRatingHandler(ratingService),
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	router.SetupRouter(h, handlers, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	go func() {
		h.Spin()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
