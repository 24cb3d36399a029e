// Package tasks holds the background jobs run alongside the HTTP server.
package tasks

import (
	"context"
	"time"

	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/store"
)

// Reconciler periodically diffs row counts between the primary store and the
// replica while the live migration is in flight.
type Reconciler struct {
	selector *store.Selector
	logger   *logging.Logger
	interval time.Duration
	stop     chan struct{}
}

// NewReconciler creates a new reconciliation task. A zero interval disables
// it entirely.
func NewReconciler(selector *store.Selector, logger *logging.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		selector: selector,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the reconciliation task in the background
func (r *Reconciler) Start() {
	if r.interval <= 0 || r.selector.Replica() == nil {
		r.logger.Info("Backend reconciliation task disabled")
		return
	}
	go r.runPeriodically()
}

// Stop terminates the periodic run. Safe to call once.
func (r *Reconciler) Stop() {
	close(r.stop)
}

// runPeriodically runs the diff at regular intervals
func (r *Reconciler) runPeriodically() {
	// Run immediately on startup
	r.reconcile()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile()
		case <-r.stop:
			return
		}
	}
}

// reconcile performs the actual diff and logs any drift
func (r *Reconciler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	diffs, err := r.selector.Reconcile(ctx)
	if err != nil {
		r.logger.Error("Backend reconciliation failed: %v", err)
		return
	}

	drift := 0
	for _, diff := range diffs {
		if !diff.Match {
			drift++
			r.logger.Warn("Backend drift on %s: primary=%d replica=%d", diff.Table, diff.Primary, diff.Replica)
		}
	}
	if drift == 0 {
		r.logger.Info("Backend reconciliation OK across %d tables", len(diffs))
	}
}
