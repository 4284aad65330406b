//go:build linux && cgo

package sensor

import (
	"sync"
	"time"

	"github.com/d2r2/go-dht"
)

// sampleValidity is how long one physical read serves both channels.
// The DHT22 cannot be strobed faster than every ~2 seconds.
const sampleValidity = 2 * time.Second

// DHT22 reads a DHT22 sensor on a GPIO pin using the go-dht bit-bang
// protocol driver. One physical read yields both channels; the paired
// value is cached briefly so Temperature and Humidity observe the same
// sample, like the upstream Adafruit driver this replaces.
type DHT22 struct {
	pin int

	mu       sync.Mutex
	tempC    float64
	humidity float64
	sampled  time.Time
	valid    bool
}

// NewDHT22 creates a driver for a DHT22 with its data line on the given
// BCM pin.
func NewDHT22(pin int) *DHT22 {
	return &DHT22{pin: pin}
}

// Temperature returns the raw temperature in Celsius.
func (d *DHT22) Temperature() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.refresh() {
		return 0, false
	}
	return d.tempC, true
}

// Humidity returns the raw relative humidity in percent.
func (d *DHT22) Humidity() (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.refresh() {
		return 0, false
	}
	return d.humidity, true
}

// refresh performs a physical read if the cached sample is stale.
// Caller holds d.mu.
func (d *DHT22) refresh() bool {
	if d.valid && time.Since(d.sampled) < sampleValidity {
		return true
	}
	temp, hum, err := dht.ReadDHTxx(dht.DHT22, d.pin, false)
	if err != nil {
		d.valid = false
		return false
	}
	d.tempC = float64(temp)
	d.humidity = float64(hum)
	d.sampled = time.Now()
	d.valid = true
	return true
}

// Reset drops the cached sample and waits out the sensor settle time so
// the next attempt starts a fresh bus transaction.
func (d *DHT22) Reset() error {
	d.mu.Lock()
	d.valid = false
	d.mu.Unlock()
	time.Sleep(sampleValidity)
	return nil
}

// Close releases the device. The protocol driver holds no persistent
// handle, so there is nothing to tear down.
func (d *DHT22) Close() error {
	return nil
}
