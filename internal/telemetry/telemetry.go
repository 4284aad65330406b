// Package telemetry decides when snapshots are due for each external sink.
// Each sink has an independent cadence and cursor. Cursors advance only on
// successful emission, so a sink outage is retried at the next natural
// poll instead of busy-looping.
package telemetry

import "time"

// Sink names used by the control loop.
const (
	SinkStore = "store"
	SinkBus   = "bus"
)

// Scheduler tracks per-sink emission cursors. Not safe for concurrent
// use; owned by the control loop.
type Scheduler struct {
	cadence map[string]time.Duration
	last    map[string]time.Time
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cadence: make(map[string]time.Duration),
		last:    make(map[string]time.Time),
	}
}

// Register sets a sink's cadence. A cadence <= 0 disables the sink.
func (s *Scheduler) Register(sink string, every time.Duration) {
	s.cadence[sink] = every
}

// Due reports whether the sink's cadence has elapsed since its last
// successful emission. A sink that has never emitted is due immediately.
func (s *Scheduler) Due(sink string, now time.Time) bool {
	every, ok := s.cadence[sink]
	if !ok || every <= 0 {
		return false
	}
	last, seen := s.last[sink]
	if !seen {
		return true
	}
	return now.Sub(last) >= every
}

// Advance records a successful emission for the sink. Callers must not
// advance on failure.
func (s *Scheduler) Advance(sink string, now time.Time) {
	s.last[sink] = now
}

// Last returns the sink's cursor, if it has ever advanced.
func (s *Scheduler) Last(sink string) (time.Time, bool) {
	t, ok := s.last[sink]
	return t, ok
}
