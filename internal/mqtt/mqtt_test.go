package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/sensor"
)

var ts = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestFormatTransition(t *testing.T) {
	r := sensor.Reading{Time: ts, TempC: 28, TempF: 82.4, Humidity: 78}
	e := control.TransitionEvent{
		Time:    ts,
		Relay:   "relay1",
		State:   control.On,
		Reading: &r,
		Source:  "policy",
	}

	data, err := FormatTransition(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p EventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Relay.Timestamp != "2026-03-01T08:00:00Z" {
		t.Errorf("unexpected timestamp: %s", p.Relay.Timestamp)
	}
	if p.Relay.Name != "relay1" || p.Relay.State != "ON" || p.Relay.Source != "policy" {
		t.Errorf("unexpected relay payload: %+v", p.Relay)
	}
	if p.Relay.Reading == nil || p.Relay.Reading.Humidity != 78 {
		t.Errorf("unexpected reading payload: %+v", p.Relay.Reading)
	}
}

func TestFormatTransitionWithoutReading(t *testing.T) {
	e := control.TransitionEvent{Time: ts, Relay: "relay2", State: control.Off, Source: "override"}

	data, err := FormatTransition(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["relay"]["reading"]; ok {
		t.Error("reading should be omitted when absent")
	}
}

func TestFormatTelemetry(t *testing.T) {
	s := control.TelemetrySnapshot{
		Time:     ts,
		Reading:  sensor.Reading{TempC: 28, TempF: 82.4, Humidity: 85},
		Relay1:   control.On,
		Relay2:   control.Off,
		SensorOK: true,
		Counts:   control.Counts{Relay1On: 2, SensorFailures: 1},
	}

	data, err := FormatTelemetry(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p TelemetryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Telemetry.Relay1 != "ON" || p.Telemetry.Relay2 != "OFF" {
		t.Errorf("unexpected relay states: %+v", p.Telemetry)
	}
	if !p.Telemetry.SensorOK {
		t.Error("expected sensor_ok true")
	}
	if p.Telemetry.Counts.Relay1On != 2 || p.Telemetry.Counts.SensorFailures != 1 {
		t.Errorf("unexpected counts: %+v", p.Telemetry.Counts)
	}
}

func TestFormatSystem(t *testing.T) {
	data, err := FormatSystem(control.SystemEvent{Time: ts, Event: "SHUTDOWN", Reason: "SIGTERM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var p SystemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.System.Event != "SHUTDOWN" || p.System.Reason != "SIGTERM" {
		t.Errorf("unexpected system payload: %+v", p.System)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishTransition(control.TransitionEvent{Relay: "relay1", State: control.On}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(control.SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Transitions) != 1 || len(f.SystemEvents) != 1 {
		t.Errorf("unexpected records: %d transitions, %d system events",
			len(f.Transitions), len(f.SystemEvents))
	}
}
