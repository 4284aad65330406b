package status

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/sensor"
)

func testConfig() Config {
	return Config{
		TickMs:       1000,
		SensorPollMs: 10000,
		HumidityLow:  80,
		HumidityHigh: 90,
		TempLow:      28,
		TempHigh:     30,
		HeaterMode:   "hysteresis",
		Broker:       "tcp://localhost:1883",
		HTTPAddr:     ":8080",
	}
}

func TestTrackerStartsUnknown(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	snap := tr.Snapshot()

	if snap.Relay1 != control.Unknown || snap.Relay2 != control.Unknown {
		t.Errorf("initial relay states = %q, %q, want UNKNOWN", snap.Relay1, snap.Relay2)
	}
	if !snap.SensorOK {
		t.Error("initial SensorOK = false, want true")
	}
	if snap.Reading != nil {
		t.Error("initial reading should be nil")
	}
}

func TestTrackerUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	r := &sensor.Reading{
		Time:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		TempC:    26.0,
		TempF:    78.8,
		Humidity: 84.0,
	}
	counts := control.Counts{Relay1On: 2, Relay1Off: 1, SensorFailures: 3}
	tr.Update(r, control.On, control.Off, false, 3, counts)

	snap := tr.Snapshot()
	if snap.Relay1 != control.On || snap.Relay2 != control.Off {
		t.Errorf("relay states = %q, %q, want ON, OFF", snap.Relay1, snap.Relay2)
	}
	if snap.SensorOK {
		t.Error("SensorOK = true, want false")
	}
	if snap.Failures != 3 {
		t.Errorf("Failures = %d, want 3", snap.Failures)
	}
	if snap.Counts != counts {
		t.Errorf("Counts = %+v, want %+v", snap.Counts, counts)
	}
	if snap.Reading == nil || snap.Reading.Humidity != 84.0 {
		t.Errorf("Reading = %+v, want humidity 84.0", snap.Reading)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if got := snap.Uptime(); got != 90*time.Second {
		t.Errorf("Uptime() = %v, want 90s", got)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Reading: &sensor.Reading{
			Time:     start.Add(time.Minute),
			TempC:    28.0,
			TempF:    82.4,
			Humidity: 78.0,
		},
		Relay1:        control.On,
		Relay2:        control.Off,
		SensorOK:      true,
		Counts:        control.Counts{Relay1On: 1},
		StartTime:     start,
		Now:           start.Add(2 * time.Minute),
		MQTTConnected: true,
		Config:        testConfig(),
	}

	data := FormatJSON(snap)
	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", err)
	}

	inner := parsed.Status
	if inner.Relay1 != "ON" || inner.Relay2 != "OFF" {
		t.Errorf("relays = %q, %q, want ON, OFF", inner.Relay1, inner.Relay2)
	}
	if inner.UptimeSeconds != 120 {
		t.Errorf("uptime_seconds = %d, want 120", inner.UptimeSeconds)
	}
	if inner.Reading == nil || inner.Reading.TemperatureF != 82.4 {
		t.Errorf("reading = %+v, want temperature_f 82.4", inner.Reading)
	}
	if !inner.MQTT.Connected || inner.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("mqtt = %+v", inner.MQTT)
	}
	if inner.Counts.Relay1On != 1 {
		t.Errorf("counts.relay1_on = %d, want 1", inner.Counts.Relay1On)
	}
	if inner.Config.HeaterMode != "hysteresis" {
		t.Errorf("config.heater_mode = %q, want hysteresis", inner.Config.HeaterMode)
	}
}

func TestFormatJSONUnknownAndNoReading(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Relay1:    control.Unknown,
		Relay2:    control.Unknown,
		StartTime: start,
		Now:       start,
		Config:    testConfig(),
	}

	data := FormatJSON(snap)
	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", err)
	}
	if parsed.Status.Relay1 != "UNKNOWN" || parsed.Status.Relay2 != "UNKNOWN" {
		t.Errorf("relays = %q, %q, want UNKNOWN", parsed.Status.Relay1, parsed.Status.Relay2)
	}
	if strings.Contains(string(data), `"reading"`) {
		t.Error("reading key should be omitted when no reading exists")
	}
}
