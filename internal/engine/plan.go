package engine

import (
	"time"

	"github.com/updrift/updrift/internal/store"
)

// PlanAction is a billable action kind checked against the org's
// exceed-flags.
type PlanAction string

const (
	ActionMAU       PlanAction = "mau"
	ActionStorage   PlanAction = "storage"
	ActionBandwidth PlanAction = "bandwidth"
)

// planAllowed reports whether the org may perform the requested actions.
// An active trial always passes; otherwise the subscription must have
// succeeded, be a good plan, and none of the requested actions may be over
// quota. This runs before any version/channel resolution so quota-exhausted
// orgs never generate read-replica load.
func planAllowed(plan *store.OrgPlan, actions ...PlanAction) bool {
	if plan.TrialUntil.After(time.Now()) {
		return true
	}
	if plan.Status != "succeeded" || !plan.IsGoodPlan {
		return false
	}
	for _, action := range actions {
		switch action {
		case ActionMAU:
			if plan.MauExceeded {
				return false
			}
		case ActionStorage:
			if plan.StorageExceeded {
				return false
			}
		case ActionBandwidth:
			if plan.BandwidthExceeded {
				return false
			}
		}
	}
	return true
}
