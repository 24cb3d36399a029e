package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/updrift/updrift/internal/api/dto/v1/update"
	"github.com/updrift/updrift/internal/engine"
	"github.com/updrift/updrift/internal/logging"
)

// UpdateHandler handles the device-facing update check endpoints. Responses
// are the engine's byte-stable bodies, never the operational envelope.
type UpdateHandler struct {
	engine *engine.Engine
}

// NewUpdateHandler creates a new update handler instance
func NewUpdateHandler(eng *engine.Engine) *UpdateHandler {
	return &UpdateHandler{engine: eng}
}

// Check resolves an update check on the traffic-split backend pair.
func (h *UpdateHandler) Check(c *gin.Context) {
	req, reject := bindCheckRequest(c)
	if reject != nil {
		c.JSON(http.StatusBadRequest, reject)
		return
	}

	result := h.engine.CheckUpdate(c.Request.Context(), req.ToEngine())
	c.JSON(result.Status, result.Body)
}

// CheckLite resolves an update check pinned to the read replica.
func (h *UpdateHandler) CheckLite(c *gin.Context) {
	req, reject := bindCheckRequest(c)
	if reject != nil {
		c.JSON(http.StatusBadRequest, reject)
		return
	}

	result := h.engine.CheckUpdateLite(c.Request.Context(), req.ToEngine())
	c.JSON(result.Status, result.Body)
}

func bindCheckRequest(c *gin.Context) (*update.CheckRequest, *engine.RejectBody) {
	var req update.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.GetGlobalLogger().Debug("update check bind failed: %v", err)
		return nil, bindReject(err)
	}
	return &req, nil
}

// bindReject maps binding failures onto the distinct identity error codes
// clients match on. Malformed JSON and unknown fields collapse to one code.
func bindReject(err error) *engine.RejectBody {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return &engine.RejectBody{
			Message: "Cannot parse JSON body",
			Error:   engine.CodeInvalidJSONBody,
		}
	}

	for _, fieldErr := range validationErrors {
		required := fieldErr.Tag() == "required"
		switch fieldErr.Field() {
		case "AppID":
			if required {
				return &engine.RejectBody{Message: "Missing app_id", Error: engine.CodeMissingAppID}
			}
			return &engine.RejectBody{Message: "Invalid app_id", Error: engine.CodeInvalidAppID}
		case "DeviceID":
			if required {
				return &engine.RejectBody{Message: "Missing device_id", Error: engine.CodeMissingDeviceID}
			}
			return &engine.RejectBody{Message: "Invalid device_id", Error: engine.CodeInvalidDeviceID}
		case "Platform":
			return &engine.RejectBody{Message: "Invalid platform", Error: engine.CodeInvalidPlatform}
		}
	}

	return &engine.RejectBody{
		Message: "Cannot parse JSON body",
		Error:   engine.CodeInvalidJSONBody,
	}
}
