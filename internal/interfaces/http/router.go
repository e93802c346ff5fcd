// Package http assembles the gin engine: inbound platform events and the
// authenticated admin API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingorelay/lingorelay/internal/interfaces/http/handlers/admin"
	"github.com/lingorelay/lingorelay/internal/interfaces/http/handlers/events"
	"github.com/lingorelay/lingorelay/internal/interfaces/http/middleware"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

// Router holds the engine and its handlers.
type Router struct {
	engine            *gin.Engine
	eventHandler      *events.Handler
	tenantHandler     *admin.TenantHandler
	memberHandler     *admin.MemberHandler
	moderationHandler *admin.ModerationHandler
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter builds the engine with logging and recovery wired in.
func NewRouter(
	mode string,
	eventHandler *events.Handler,
	tenantHandler *admin.TenantHandler,
	memberHandler *admin.MemberHandler,
	moderationHandler *admin.ModerationHandler,
	authMiddleware *middleware.AuthMiddleware,
	log logger.Interface,
) *Router {
	gin.SetMode(mode)

	engine := gin.New()
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Recovery(log))

	r := &Router{
		engine:            engine,
		eventHandler:      eventHandler,
		tenantHandler:     tenantHandler,
		memberHandler:     memberHandler,
		moderationHandler: moderationHandler,
		authMiddleware:    authMiddleware,
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Inbound events authenticate with the shared event secret, not a
	// bearer token.
	r.engine.POST("/platform/events", r.eventHandler.HandleMessageEvent)

	adminGroup := r.engine.Group("/admin", r.authMiddleware.RequireAuth())
	{
		tenants := adminGroup.Group("/tenants")
		tenants.POST("", r.tenantHandler.Register)
		tenants.GET("/:id", r.tenantHandler.Get)
		tenants.PUT("/:id/channels", r.tenantHandler.SetChannel)
		tenants.DELETE("/:id/channels/:language", r.tenantHandler.DisableChannel)
		tenants.PUT("/:id/log-channel", r.tenantHandler.SetLogChannel)
		tenants.PUT("/:id/tier", r.tenantHandler.SetTier)
		tenants.GET("/:id/usage", r.tenantHandler.Usage)
		tenants.GET("/:id/leaderboard", r.tenantHandler.Leaderboard)
		tenants.GET("/:id/activity", r.tenantHandler.Activity)

		tenants.POST("/:id/members/:user_id/verify", r.memberHandler.Verify)
		tenants.PATCH("/:id/members/:user_id", r.memberHandler.UpdatePreferences)
		tenants.GET("/:id/members/:user_id/stats", r.memberHandler.Stats)

		tenants.POST("/:id/moderation/:user_id/ban", r.moderationHandler.Ban)
		tenants.POST("/:id/moderation/:user_id/unban", r.moderationHandler.Unban)
		tenants.POST("/:id/moderation/:user_id/warn", r.moderationHandler.Warn)
		tenants.POST("/:id/moderation/:user_id/clear-warnings", r.moderationHandler.ClearWarnings)
		tenants.DELETE("/:id/moderation/warnings/:warning_id", r.moderationHandler.RemoveWarning)
		tenants.GET("/:id/moderation/:user_id", r.moderationHandler.Status)
	}
}

// Engine exposes the configured gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
