//go:build !linux

package relay

import "errors"

// RealPins is not available on non-Linux platforms.
type RealPins struct{}

// NewRealPins returns an error on non-Linux platforms.
func NewRealPins(pins map[string]int) (*RealPins, error) {
	return nil, errors.New("relay: not supported on this platform (requires Linux)")
}

// SetPin is not implemented on non-Linux platforms.
func (r *RealPins) SetPin(name string, high bool) error {
	return errors.New("relay: not supported")
}

// ReleaseAll is not implemented on non-Linux platforms.
func (r *RealPins) ReleaseAll() error {
	return nil
}
