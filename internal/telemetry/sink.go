package telemetry

import (
	"context"
	"time"

	"github.com/updrift/updrift/internal/logging"
	"github.com/updrift/updrift/internal/store"
)

// Sink is the fire-and-forget recording contract consumed by the engine.
type Sink interface {
	RecordDevice(d *store.Device)
	RecordStats(appID, deviceID, action string, versionID int64)
	RecordBandwidth(appID, deviceID string, bytes int64)
	RecordMAU(appID, deviceID string)
}

// asyncSink writes to the primary backend on the scheduler. The replica
// never receives telemetry; analytics rows flow one way.
type asyncSink struct {
	backend store.Backend
	sched   Scheduler
	logger  *logging.Logger
	timeout time.Duration
}

// NewSink builds the default sink over the primary backend.
func NewSink(backend store.Backend, sched Scheduler, logger *logging.Logger) Sink {
	return &asyncSink{
		backend: backend,
		sched:   sched,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

func (s *asyncSink) run(what string, fn func(ctx context.Context) error) {
	s.sched.Schedule(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.logger.Warn("telemetry %s failed: %v", what, err)
		}
	})
}

func (s *asyncSink) RecordDevice(d *store.Device) {
	record := *d
	s.run("device upsert", func(ctx context.Context) error {
		stored, err := s.backend.GetDevice(ctx, record.AppID, record.DeviceID)
		if err != nil && err != store.ErrNotFound {
			return err
		}
		if !store.DeviceChanged(stored, &record) {
			return nil
		}
		return s.backend.SaveDevice(ctx, &record)
	})
}

func (s *asyncSink) RecordStats(appID, deviceID, action string, versionID int64) {
	s.run("stats", func(ctx context.Context) error {
		return s.backend.RecordStats(ctx, store.StatsEvent{
			AppID:     appID,
			DeviceID:  deviceID,
			Action:    action,
			VersionID: versionID,
			CreatedAt: time.Now().UTC(),
		})
	})
}

func (s *asyncSink) RecordBandwidth(appID, deviceID string, bytes int64) {
	s.run("bandwidth", func(ctx context.Context) error {
		return s.backend.RecordBandwidth(ctx, appID, deviceID, bytes)
	})
}

func (s *asyncSink) RecordMAU(appID, deviceID string) {
	s.run("mau", func(ctx context.Context) error {
		now := time.Now().UTC()
		period := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return s.backend.RecordMAU(ctx, appID, deviceID, period)
	})
}
