// Package notify delivers owner-facing warnings with at-most-once-per-interval
// semantics. Delivery transport (email, Discord) is an external collaborator;
// this package owns the dedupe and hands the payload to whatever is wired.
package notify

import (
	"context"
	"time"

	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/store"
)

// Event keys used by the resolution engine.
const (
	EventSemverError  = "semver_error"
	EventPluginTooOld = "plugin_version_too_old"
)

// WeeklyInterval is the default rate limit for owner warnings.
const WeeklyInterval = 7 * 24 * time.Hour

// Notifier is the collaborator contract consumed by the engine.
type Notifier interface {
	// NotifyOrgOncePerInterval sends eventKey to orgID at most once per
	// interval. Repeat calls within the interval are dropped silently.
	NotifyOrgOncePerInterval(ctx context.Context, eventKey, orgID string, interval time.Duration, payload map[string]any) error
}

// storeNotifier dedupes through the primary store's notifications table and
// logs the payload in place of an outbound transport.
type storeNotifier struct {
	backend store.Backend
	logger  *logging.Logger
}

// New builds the default notifier.
func New(backend store.Backend, logger *logging.Logger) Notifier {
	return &storeNotifier{backend: backend, logger: logger}
}

func (n *storeNotifier) NotifyOrgOncePerInterval(ctx context.Context, eventKey, orgID string, interval time.Duration, payload map[string]any) error {
	periodStart := time.Now().UTC().Truncate(interval)
	first, err := n.backend.MarkNotified(ctx, eventKey, orgID, periodStart)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	n.logger.Info("notify org=%s event=%s payload=%v", orgID, eventKey, payload)
	return nil
}
