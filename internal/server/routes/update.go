package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/handlers"
)

// SetupUpdateRoutes configures the device-facing update check endpoints.
// Both generations share one payload and one response contract; the lite
// variant pins the read replica.
func SetupUpdateRoutes(router *gin.Engine, update *handlers.UpdateHandler) {
	router.POST("/updates", update.Check)
	router.POST("/updates_lite", update.CheckLite)
}
