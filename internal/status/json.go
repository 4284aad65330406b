package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Relay1        string       `json:"relay1"`
	Relay2        string       `json:"relay2"`
	SensorOK      bool         `json:"sensor_ok"`
	Failures      int          `json:"consecutive_failures"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the latest reading.
type ReadingJSON struct {
	Timestamp    string  `json:"timestamp"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureF float64 `json:"temperature_f"`
	Humidity     float64 `json:"humidity"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Relay1On       int `json:"relay1_on"`
	Relay1Off      int `json:"relay1_off"`
	Relay2On       int `json:"relay2_on"`
	Relay2Off      int `json:"relay2_off"`
	SensorFailures int `json:"sensor_failures"`
	Overrides      int `json:"overrides"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs       int64   `json:"tick_ms"`
	SensorPollMs int64   `json:"sensor_poll_ms"`
	HumidityLow  float64 `json:"humidity_low"`
	HumidityHigh float64 `json:"humidity_high"`
	TempLow      float64 `json:"temp_low"`
	TempHigh     float64 `json:"temp_high"`
	HeaterMode   string  `json:"heater_mode"`
	Broker       string  `json:"broker"`
	HTTPAddr     string  `json:"http_addr"`
}

func stateOrUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Relay1:        stateOrUnknown(string(snap.Relay1)),
		Relay2:        stateOrUnknown(string(snap.Relay2)),
		SensorOK:      snap.SensorOK,
		Failures:      snap.Failures,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Relay1On:       snap.Counts.Relay1On,
			Relay1Off:      snap.Counts.Relay1Off,
			Relay2On:       snap.Counts.Relay2On,
			Relay2Off:      snap.Counts.Relay2Off,
			SensorFailures: snap.Counts.SensorFailures,
			Overrides:      snap.Counts.Overrides,
		},
		Config: ConfigJSON{
			TickMs:       snap.Config.TickMs,
			SensorPollMs: snap.Config.SensorPollMs,
			HumidityLow:  snap.Config.HumidityLow,
			HumidityHigh: snap.Config.HumidityHigh,
			TempLow:      snap.Config.TempLow,
			TempHigh:     snap.Config.TempHigh,
			HeaterMode:   snap.Config.HeaterMode,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}

	if snap.Reading != nil {
		inner.Reading = &ReadingJSON{
			Timestamp:    snap.Reading.Time.UTC().Format(time.RFC3339),
			TemperatureC: snap.Reading.TempC,
			TemperatureF: snap.Reading.TempF,
			Humidity:     snap.Reading.Humidity,
		}
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
