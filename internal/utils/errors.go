package utils

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/dto/common"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/store"
)

// HandleAPIError is the consistent error path for the operational endpoints.
// Error details are only exposed outside release mode.
func HandleAPIError(c *gin.Context, err error, defaultStatus int, defaultCode common.ErrorCode, defaultMessage string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, common.NewErrorResponse(common.ErrCodeNotFound, "Resource not found", nil))
		return
	}

	logger := logging.GetGlobalLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		defaultStatus,
		defaultMessage,
		err,
	)

	var errorDetails interface{}
	if gin.Mode() != gin.ReleaseMode {
		errorDetails = err.Error()
	}

	c.JSON(defaultStatus, common.NewErrorResponse(defaultCode, defaultMessage, errorDetails))
}
