package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/api/dto/common"
	"github.com/updrift/updrift/internal/store"
)

type HealthHandler struct {
	selector *store.Selector
}

func NewHealthHandler(selector *store.Selector) *HealthHandler {
	return &HealthHandler{selector: selector}
}

// BackendHealth is one backend's liveness in the health report.
type BackendHealth struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// Check pings every wired backend. The endpoint degrades to 503 when any
// backend is unreachable so load balancers can rotate the instance out.
func (h *HealthHandler) Check(c *gin.Context) {
	backends := []store.Backend{h.selector.Primary()}
	if replica := h.selector.Replica(); replica != nil {
		backends = append(backends, replica)
	}

	report := make([]BackendHealth, 0, len(backends))
	healthy := true
	for _, backend := range backends {
		err := backend.Ping(c.Request.Context())
		if err != nil {
			healthy = false
		}
		report = append(report, BackendHealth{Name: backend.Name(), OK: err == nil})
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, common.NewErrorResponse(common.ErrCodeUnavailable, "Backend unreachable", report))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(report))
}
