// Package mqtt publishes controller events and telemetry to the broker,
// with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/sensor"
)

// Topics for controller traffic.
const (
	// TopicEvents carries relay transitions.
	TopicEvents = "growroom/fruiting/events"

	// TopicTelemetry carries periodic state snapshots.
	TopicTelemetry = "growroom/fruiting/telemetry"

	// TopicSystem carries lifecycle events (startup, shutdown).
	TopicSystem = "growroom/fruiting/system"
)

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ReadingPayload is the JSON form of a sensor reading.
type ReadingPayload struct {
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
}

// EventPayload is the envelope for a relay transition.
type EventPayload struct {
	Relay RelayPayload `json:"relay"`
}

// RelayPayload contains the transition details.
type RelayPayload struct {
	Timestamp string          `json:"timestamp"`
	Name      string          `json:"name"`
	State     string          `json:"state"`
	Source    string          `json:"source"`
	Reading   *ReadingPayload `json:"reading,omitempty"`
}

// TelemetryPayload is the envelope for a periodic snapshot.
type TelemetryPayload struct {
	Telemetry TelemetryInner `json:"telemetry"`
}

// TelemetryInner contains the snapshot details.
type TelemetryInner struct {
	Timestamp string         `json:"timestamp"`
	Reading   ReadingPayload `json:"reading"`
	Relay1    string         `json:"relay1"`
	Relay2    string         `json:"relay2"`
	SensorOK  bool           `json:"sensor_ok"`
	Counts    CountsPayload  `json:"counts"`
}

// CountsPayload is the JSON representation of transition counts.
type CountsPayload struct {
	Relay1On       int `json:"relay1_on"`
	Relay1Off      int `json:"relay1_off"`
	Relay2On       int `json:"relay2_on"`
	Relay2Off      int `json:"relay2_off"`
	SensorFailures int `json:"sensor_failures"`
	Overrides      int `json:"overrides"`
}

// SystemPayload is the envelope for a lifecycle event.
type SystemPayload struct {
	System SystemInner `json:"system"`
}

// SystemInner contains the lifecycle event details.
type SystemInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

func readingPayload(r sensor.Reading) ReadingPayload {
	return ReadingPayload{
		TemperatureC: r.TempC,
		TemperatureF: r.TempF,
		Humidity:     r.Humidity,
	}
}

// FormatTransition creates the JSON payload for a relay transition.
func FormatTransition(e control.TransitionEvent) ([]byte, error) {
	p := EventPayload{
		Relay: RelayPayload{
			Timestamp: e.Time.UTC().Format(time.RFC3339),
			Name:      e.Relay,
			State:     string(e.State),
			Source:    e.Source,
		},
	}
	if e.Reading != nil {
		r := readingPayload(*e.Reading)
		p.Relay.Reading = &r
	}
	return json.Marshal(p)
}

// FormatTelemetry creates the JSON payload for a telemetry snapshot.
func FormatTelemetry(s control.TelemetrySnapshot) ([]byte, error) {
	return json.Marshal(TelemetryPayload{
		Telemetry: TelemetryInner{
			Timestamp: s.Time.UTC().Format(time.RFC3339),
			Reading:   readingPayload(s.Reading),
			Relay1:    string(s.Relay1),
			Relay2:    string(s.Relay2),
			SensorOK:  s.SensorOK,
			Counts: CountsPayload{
				Relay1On:       s.Counts.Relay1On,
				Relay1Off:      s.Counts.Relay1Off,
				Relay2On:       s.Counts.Relay2On,
				Relay2Off:      s.Counts.Relay2Off,
				SensorFailures: s.Counts.SensorFailures,
				Overrides:      s.Counts.Overrides,
			},
		},
	})
}

// FormatSystem creates the JSON payload for a lifecycle event.
func FormatSystem(e control.SystemEvent) ([]byte, error) {
	return json.Marshal(SystemPayload{
		System: SystemInner{
			Timestamp: e.Time.UTC().Format(time.RFC3339),
			Event:     e.Event,
			Reason:    e.Reason,
		},
	})
}
