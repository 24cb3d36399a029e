package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/dto/common"
	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/store"
	"github.com/updrift/updrift/internal/utils"
)

// ReconcileHandler exposes the migration consistency diff.
type ReconcileHandler struct {
	selector *store.Selector
}

// NewReconcileHandler creates a new reconcile handler instance
func NewReconcileHandler(selector *store.Selector) *ReconcileHandler {
	return &ReconcileHandler{selector: selector}
}

// Diff counts rows per reconciled table on both backends and reports
// mismatches. With no replica wired the diff is empty.
func (h *ReconcileHandler) Diff(c *gin.Context) {
	diffs, err := h.selector.Reconcile(c.Request.Context())
	if err != nil {
		logging.GetGlobalLogger().Error("reconciliation diff failed: %v", err)
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to reconcile backends")
		return
	}

	utils.HandleSuccess(c, diffs)
}
