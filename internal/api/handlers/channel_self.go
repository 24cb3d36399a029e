package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/dto/v1/channel"
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/logging"
)

// ChannelSelfHandler handles device channel self-assignment.
type ChannelSelfHandler struct {
	engine *engine.Engine
}

// NewChannelSelfHandler creates a new channel self-assignment handler instance
func NewChannelSelfHandler(eng *engine.Engine) *ChannelSelfHandler {
	return &ChannelSelfHandler{engine: eng}
}

// Get returns the channel the device is currently pinned to. Identity
// travels in query parameters; GET carries no body.
func (h *ChannelSelfHandler) Get(c *gin.Context) {
	var req channel.SelfRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logging.GetGlobalLogger().Debug("channel_self get bind failed: %v", err)
		c.JSON(http.StatusBadRequest, bindReject(err))
		return
	}

	result := h.engine.GetSelfChannel(c.Request.Context(), req.ToEngine())
	c.JSON(result.Status, result.Body)
}

// Set pins the device to the requested channel.
func (h *ChannelSelfHandler) Set(c *gin.Context) {
	var req channel.SelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.GetGlobalLogger().Debug("channel_self set bind failed: %v", err)
		c.JSON(http.StatusBadRequest, bindReject(err))
		return
	}

	result := h.engine.SetSelfChannel(c.Request.Context(), req.ToEngine())
	c.JSON(result.Status, result.Body)
}

// Delete removes the device's channel override.
func (h *ChannelSelfHandler) Delete(c *gin.Context) {
	var req channel.SelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.GetGlobalLogger().Debug("channel_self delete bind failed: %v", err)
		c.JSON(http.StatusBadRequest, bindReject(err))
		return
	}

	result := h.engine.DeleteSelfChannel(c.Request.Context(), req.ToEngine())
	c.JSON(result.Status, result.Body)
}
