package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/handlers"
)

// SetupChannelRoutes configures device channel self-assignment
func SetupChannelRoutes(router *gin.Engine, channelSelf *handlers.ChannelSelfHandler) {
	router.GET("/channel_self", channelSelf.Get)
	router.PUT("/channel_self", channelSelf.Set)
	router.DELETE("/channel_self", channelSelf.Delete)
}
