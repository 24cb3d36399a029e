package store

import (
	"context"
	"testing"
)

// fakeBackend overrides just the methods a test needs.
type fakeBackend struct {
	Backend
	name   string
	counts map[string]int64
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) CountRows(_ context.Context, table string) (int64, error) {
	return f.counts[table], nil
}

func TestSelectorPick(t *testing.T) {
	primary := &fakeBackend{name: "postgres"}
	replica := &fakeBackend{name: "replica"}

	s := NewSelector(primary, replica, 0.5)

	s.randFn = func() float64 { return 0.49 }
	if got := s.Pick(); got.Name() != "replica" {
		t.Errorf("rand below fraction must pick replica, got %s", got.Name())
	}

	s.randFn = func() float64 { return 0.51 }
	if got := s.Pick(); got.Name() != "postgres" {
		t.Errorf("rand above fraction must pick primary, got %s", got.Name())
	}

	// Zero fraction pins to primary even with a replica wired.
	zero := NewSelector(primary, replica, 0)
	zero.randFn = func() float64 { return 0 }
	if got := zero.Pick(); got.Name() != "postgres" {
		t.Errorf("zero fraction must pick primary, got %s", got.Name())
	}

	// No replica configured.
	solo := NewSelector(primary, nil, 1)
	if got := solo.Pick(); got.Name() != "postgres" {
		t.Errorf("nil replica must pick primary, got %s", got.Name())
	}
}

func TestSelectorReconcile(t *testing.T) {
	primary := &fakeBackend{name: "postgres", counts: map[string]int64{"apps": 3, "devices": 10}}
	replica := &fakeBackend{name: "replica", counts: map[string]int64{"apps": 3, "devices": 9}}

	s := NewSelector(primary, replica, 0)
	diffs, err := s.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if len(diffs) != len(Tables) {
		t.Fatalf("expected %d diffs, got %d", len(Tables), len(diffs))
	}

	byTable := map[string]TableDiff{}
	for _, d := range diffs {
		byTable[d.Table] = d
	}
	if !byTable["apps"].Match {
		t.Error("apps counts match but diff reports mismatch")
	}
	if byTable["devices"].Match {
		t.Error("devices counts differ but diff reports match")
	}
}
