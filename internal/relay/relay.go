// Package relay provides idempotent on/off control of named relays with
// hardware abstraction. The real implementation drives GPIO output lines
// via the Linux GPIO character device.
package relay

import (
	"errors"
	"fmt"
	"log/slog"
)

// Pins abstracts the GPIO output lines behind the actuator.
type Pins interface {
	// SetPin drives the named relay's line high or low.
	SetPin(name string, high bool) error

	// ReleaseAll drives every line low and releases it.
	ReleaseAll() error
}

// Relay names. The board exposes two relays.
const (
	Humidifier = "relay1" // humidifier in the fruiting room
	HeaterFan  = "relay2" // heater/fan responding to excess temperature
)

// Default pin assignments (BCM numbering).
const (
	DefaultPinHumidifier = 17
	DefaultPinHeaterFan  = 18
)

// Actuator sets relay states idempotently: commanding the state a relay
// is already in is a no-op at the hardware layer but always safe to call.
type Actuator struct {
	pins   Pins
	last   map[string]bool // last commanded level, absent until first Set
	log    *slog.Logger
	closed bool
}

// NewActuator creates an Actuator over the given pins.
func NewActuator(pins Pins, log *slog.Logger) *Actuator {
	return &Actuator{
		pins: pins,
		last: make(map[string]bool),
		log:  log,
	}
}

// Set drives the named relay on or off. Repeating the last commanded
// state is a no-op. On hardware failure the last-commanded record is not
// updated, so the next Set retries the line.
func (a *Actuator) Set(name string, on bool) error {
	if a.closed {
		return errors.New("relay: actuator closed")
	}
	if prev, ok := a.last[name]; ok && prev == on {
		return nil
	}
	if err := a.pins.SetPin(name, on); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	a.last[name] = on
	a.log.Info("relay actuated", "relay", name, "on", on)
	return nil
}

// Close releases all pins. Safe to call more than once; only the first
// call touches hardware.
func (a *Actuator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.pins.ReleaseAll(); err != nil {
		return fmt.Errorf("release pins: %w", err)
	}
	return nil
}
