// Package status provides a thread-safe status tracker for the
// controller daemon. The control loop writes snapshots; HTTP handlers
// read them.
package status

import (
	"sync"
	"time"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/sensor"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs       int64
	SensorPollMs int64
	HumidityLow  float64
	HumidityHigh float64
	TempLow      float64
	TempHigh     float64
	HeaterMode   string
	Broker       string
	HTTPAddr     string
}

// Snapshot is a point-in-time view of daemon state. It is a value
// type, safe to use after the lock is released.
type Snapshot struct {
	Reading       *sensor.Reading
	Relay1        control.State
	Relay2        control.State
	SensorOK      bool
	Failures      int
	Counts        control.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Relay1:    control.Unknown,
			Relay2:    control.Unknown,
			SensorOK:  true,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the latest reading, relay states, and sensor health.
// Called from the control loop; satisfies control.StatusSink.
func (t *Tracker) Update(reading *sensor.Reading, relay1, relay2 control.State, sensorOK bool, failures int, counts control.Counts) {
	t.mu.Lock()
	t.snap.Reading = reading
	t.snap.Relay1 = relay1
	t.snap.Relay2 = relay2
	t.snap.SensorOK = sensorOK
	t.snap.Failures = failures
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
