package sensor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrReadFailed is returned by Source.Read after all attempts are exhausted.
var ErrReadFailed = errors.New("sensor read failed")

// Calibration holds additive offsets applied to raw values before a
// Reading is returned.
type Calibration struct {
	TempOffset     float64
	HumidityOffset float64
}

// DefaultCalibration returns the offsets measured against the reference
// hygrometer in the fruiting room.
func DefaultCalibration() Calibration {
	return Calibration{TempOffset: DefaultTempOffset, HumidityOffset: DefaultHumidityOffset}
}

// Source wraps a flaky Driver with bounded retry, device reset between
// attempts, and calibration. It holds no health state; callers track
// failure/recovery edges.
type Source struct {
	drv        Driver
	maxRetries int
	cal        Calibration
	log        *slog.Logger
}

// NewSource creates a Source over the given driver.
func NewSource(drv Driver, maxRetries int, cal Calibration, log *slog.Logger) *Source {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Source{drv: drv, maxRetries: maxRetries, cal: cal, log: log}
}

// Read attempts to acquire a calibrated reading. A reading missing either
// channel counts as a failed attempt. The device is reset between attempts.
// After maxRetries failures it returns an error wrapping ErrReadFailed.
func (s *Source) Read(now time.Time) (Reading, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		t, tOK := s.drv.Temperature()
		h, hOK := s.drv.Humidity()
		if tOK && hOK {
			tempC := t + s.cal.TempOffset
			return Reading{
				Time:     now,
				TempC:    tempC,
				TempF:    tempC*9/5 + 32,
				Humidity: h + s.cal.HumidityOffset,
			}, nil
		}

		s.log.Warn("sensor read attempt failed",
			"attempt", attempt, "max_retries", s.maxRetries,
			"temperature_ok", tOK, "humidity_ok", hOK)

		if attempt < s.maxRetries {
			if err := s.drv.Reset(); err != nil {
				s.log.Warn("sensor reset failed", "err", err)
			}
		}
	}
	return Reading{}, fmt.Errorf("%w after %d attempts", ErrReadFailed, s.maxRetries)
}

// Close releases the underlying driver.
func (s *Source) Close() error {
	return s.drv.Close()
}
