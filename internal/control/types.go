// Package control contains the climate control loop and its pure relay
// policies. Policy evaluation is free of I/O and clock access; time is
// always injectable via time.Time parameters.
package control

import (
	"time"

	"github.com/keegan/growroom/internal/notify"
	"github.com/keegan/growroom/internal/sensor"
	"github.com/keegan/growroom/internal/store"
)

// State represents the commanded state of a relay.
type State string

const (
	On  State = "ON"
	Off State = "OFF"

	// Unknown means the last actuation faulted and the record no longer
	// reflects a confirmed command. The next policy pass re-commands the
	// relay.
	Unknown State = "UNKNOWN"
)

// Mode selects how the heater/fan relay is governed.
type Mode string

const (
	ModeHysteresis Mode = "hysteresis"
	ModeDuty       Mode = "duty"
)

// Defaults taken from the deployed fruiting-room installation.
const (
	DefaultTick       = time.Second
	DefaultSensorPoll = 10 * time.Second

	DefaultHumidityLow  = 80.0
	DefaultHumidityHigh = 90.0
	DefaultTempLow      = 28.0
	DefaultTempHigh     = 30.0

	DefaultCriticalHumidity = 70.0

	DefaultStoreEvery   = 5 * time.Minute
	DefaultPublishEvery = time.Hour

	DefaultDutyPeriod = time.Hour
	DefaultDutyOn     = 10 * time.Minute
)

// Counts tracks transitions and failures since startup, for the status
// page and telemetry.
type Counts struct {
	Relay1On       int
	Relay1Off      int
	Relay2On       int
	Relay2Off      int
	SensorFailures int
	Overrides      int
}

// TransitionEvent describes one relay transition for external sinks.
type TransitionEvent struct {
	Time    time.Time
	Relay   string
	State   State
	Reading *sensor.Reading // nil when no fresh reading accompanied the transition
	Source  string          // "policy" or "override"
}

// TelemetrySnapshot is the periodic state report pushed to the bus.
type TelemetrySnapshot struct {
	Time     time.Time
	Reading  sensor.Reading
	Relay1   State
	Relay2   State
	SensorOK bool
	Counts   Counts
}

// SystemEvent is a lifecycle event (startup, shutdown).
type SystemEvent struct {
	Time   time.Time
	Event  string // "STARTUP", "SHUTDOWN"
	Reason string // signal name on shutdown
}

// Override is a manual relay command submitted from outside the loop.
// The loop applies it at the top of its next tick; the relay then holds
// until the governing policy naturally re-converges.
type Override struct {
	Relay string
	On    bool
}

// Sensor is the acquisition boundary the loop reads from.
type Sensor interface {
	Read(now time.Time) (sensor.Reading, error)
}

// Relays is the actuation boundary.
type Relays interface {
	Set(name string, on bool) error
	Close() error
}

// Notifier dispatches debounced alerts.
type Notifier interface {
	Notify(now time.Time, key notify.Key, subject, body string) bool
}

// Bus publishes events and telemetry to the message broker.
type Bus interface {
	PublishTransition(TransitionEvent) error
	PublishTelemetry(TelemetrySnapshot) error
	PublishSystem(SystemEvent) error
}

// Store persists telemetry documents.
type Store interface {
	Insert(store.Document) error
}

// CSVLog appends one row per successful reading.
type CSVLog interface {
	Append(r sensor.Reading, relay1, relay2 State) error
}

// StatusSink receives state snapshots for the admin interface.
type StatusSink interface {
	Update(reading *sensor.Reading, relay1, relay2 State, sensorOK bool, failures int, counts Counts)
}

// Sinks bundles the optional external sinks. Any field may be nil; the
// loop skips what is not wired.
type Sinks struct {
	Bus    Bus
	Store  Store
	CSV    CSVLog
	Status StatusSink
}
