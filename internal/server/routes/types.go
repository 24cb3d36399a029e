package routes

import (
	"github.com/updrift/updrift/internal/api/handlers"
)

// Handlers contains all the route handlers
type Handlers struct {
	Update      *handlers.UpdateHandler
	ChannelSelf *handlers.ChannelSelfHandler
	Health      *handlers.HealthHandler
	Reconcile   *handlers.ReconcileHandler
}
