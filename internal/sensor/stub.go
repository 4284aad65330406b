//go:build !linux || !cgo

package sensor

import "errors"

// DHT22 is not available on non-Linux platforms.
type DHT22 struct{}

// NewDHT22 returns a stub on non-Linux platforms.
func NewDHT22(pin int) *DHT22 {
	return &DHT22{}
}

// Temperature is not implemented on non-Linux platforms.
func (d *DHT22) Temperature() (float64, bool) {
	return 0, false
}

// Humidity is not implemented on non-Linux platforms.
func (d *DHT22) Humidity() (float64, bool) {
	return 0, false
}

// Reset is not implemented on non-Linux platforms.
func (d *DHT22) Reset() error {
	return errors.New("sensor: not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (d *DHT22) Close() error {
	return nil
}
