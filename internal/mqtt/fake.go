package mqtt

import "github.com/keegan/growroom/internal/control"

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Transitions contains all relay transitions that were published.
	Transitions []control.TransitionEvent

	// Telemetry contains all snapshots that were published.
	Telemetry []control.TelemetrySnapshot

	// SystemEvents contains all lifecycle events that were published.
	SystemEvents []control.SystemEvent

	// TransitionError, TelemetryError, SystemError, if set, are returned
	// by the corresponding publish method.
	TransitionError error
	TelemetryError  error
	SystemError     error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Connected: true}
}

// PublishTransition records the transition.
func (f *FakePublisher) PublishTransition(e control.TransitionEvent) error {
	if f.TransitionError != nil {
		return f.TransitionError
	}
	f.Transitions = append(f.Transitions, e)
	return nil
}

// PublishTelemetry records the snapshot.
func (f *FakePublisher) PublishTelemetry(s control.TelemetrySnapshot) error {
	if f.TelemetryError != nil {
		return f.TelemetryError
	}
	f.Telemetry = append(f.Telemetry, s)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(e control.SystemEvent) error {
	if f.SystemError != nil {
		return f.SystemError
	}
	f.SystemEvents = append(f.SystemEvents, e)
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Transitions = nil
	f.Telemetry = nil
	f.SystemEvents = nil
	f.TransitionError = nil
	f.TelemetryError = nil
	f.SystemError = nil
	f.Closed = false
	f.Connected = true
}
