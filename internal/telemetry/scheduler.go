// Package telemetry records devices, stats actions, MAU and bandwidth off
// the request's critical path. Every write is fire-and-forget: failures are
// logged and swallowed, never surfaced to the caller.
package telemetry

import (
	"sync"

	"github.com/updrift/updrift/internal/logging"
)

// Scheduler is the capability the engine receives for detaching work from
// the response path. Hosts decide what scheduling means: a goroutine here, a
// queued job elsewhere.
type Scheduler interface {
	Schedule(fn func())
}

// GoScheduler runs scheduled functions on detached goroutines and tracks
// them so a shutdown can wait for in-flight telemetry.
type GoScheduler struct {
	wg     sync.WaitGroup
	logger *logging.Logger
}

// NewGoScheduler creates the default scheduler.
func NewGoScheduler(logger *logging.Logger) *GoScheduler {
	return &GoScheduler{logger: logger}
}

func (s *GoScheduler) Schedule(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in background task: %v", r)
			}
		}()
		fn()
	}()
}

// Wait blocks until all scheduled work has finished.
func (s *GoScheduler) Wait() {
	s.wg.Wait()
}

// SyncScheduler runs functions inline; used by tests to make background
// effects observable without sleeps.
type SyncScheduler struct{}

func (SyncScheduler) Schedule(fn func()) { fn() }
