package engine

import (
	"hash/fnv"

	"github.com/updrift/updrift/internal/store"
)

// pickTarget resolves a progressive rollout to the effective target version
// for one device. Assignment is sticky: the device id is hashed into a
// thousandth-resolution bucket, so a device stays on the same side of the
// split as the percentage ramps up.
func pickTarget(t *store.ChannelTarget, deviceID string) store.Version {
	if t.Secondary == nil || t.SplitPercent <= 0 {
		return t.Primary
	}

	h := fnv.New32a()
	h.Write([]byte(deviceID))
	bucket := float64(h.Sum32()%1000) / 1000.0

	if bucket < t.SplitPercent {
		return *t.Secondary
	}
	return t.Primary
}
