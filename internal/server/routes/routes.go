package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/middleware"
	"github.com/updrift/updrift/internal/logging"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers) {
	logger := logging.GetGlobalLogger()

	SetupHealthRoutes(router, h.Health)
	SetupUpdateRoutes(router, h.Update)
	SetupChannelRoutes(router, h.ChannelSelf)
	SetupOpsRoutes(router, h.Reconcile)

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, rateLimit middleware.RateLimitConfig) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimitMiddleware(rateLimit))
}
