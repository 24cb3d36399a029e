package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/handlers"
	"github.com/updrift/updrift/internal/api/middleware"
)

// SetupOpsRoutes configures the operational endpoints. They are not device
// facing, so they get their own tight rate limit.
func SetupOpsRoutes(router *gin.Engine, reconcile *handlers.ReconcileHandler) {
	ops := router.Group("/ops")
	{
		opsRateLimit := middleware.RateLimitMiddleware(middleware.RateLimitConfig{RPS: 1, Burst: 2})
		ops.GET("/reconcile", opsRateLimit, reconcile.Diff)
	}
}
