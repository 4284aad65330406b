// Package sensor provides temperature/humidity acquisition with hardware abstraction.
// The real implementation drives a DHT22 on a GPIO pin.
// The fake implementation allows testing without hardware.
package sensor

import "time"

// Driver is a raw sensor device. Either channel may be momentarily
// unavailable (the DHT22 frequently returns garbage on a single read),
// in which case the second return value is false.
type Driver interface {
	// Temperature returns the raw temperature in Celsius.
	Temperature() (float64, bool)

	// Humidity returns the raw relative humidity in percent.
	Humidity() (float64, bool)

	// Reset reinitializes the device. Transient bus errors on this sensor
	// class often require a hardware-level reinit, not just a retry.
	Reset() error

	// Close releases the device.
	Close() error
}

// DefaultPin is the BCM pin the DHT22 data line is wired to.
const DefaultPin = 15

// DefaultMaxRetries is the number of read attempts per Read call.
const DefaultMaxRetries = 3

// Default calibration offsets, compensating for known sensor/placement bias.
const (
	DefaultTempOffset     = -2.0
	DefaultHumidityOffset = 6.0
)

// Reading is a single calibrated sensor sample. Immutable once produced.
// TempF is derived from the calibrated Celsius value.
type Reading struct {
	Time     time.Time
	TempC    float64
	TempF    float64
	Humidity float64
}
