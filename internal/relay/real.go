//go:build linux

package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPins drives relay lines on actual hardware using the Linux GPIO
// character device.
type RealPins struct {
	chip  *gpiocdev.Chip
	lines map[string]*gpiocdev.Line
}

// NewRealPins requests the given name→BCM-pin assignments as output
// lines, all initially low (relays off).
func NewRealPins(pins map[string]int) (*RealPins, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	lines := make(map[string]*gpiocdev.Line, len(pins))
	for name, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			for _, l := range lines {
				l.Close()
			}
			chip.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		lines[name] = line
	}

	return &RealPins{chip: chip, lines: lines}, nil
}

// SetPin drives the named relay's line.
func (r *RealPins) SetPin(name string, high bool) error {
	line, ok := r.lines[name]
	if !ok {
		return fmt.Errorf("unknown relay %q", name)
	}
	v := 0
	if high {
		v = 1
	}
	if err := line.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// ReleaseAll drives every line low and releases it, then closes the chip.
// Lines are forced low first so a process restart never leaves a relay
// energized.
func (r *RealPins) ReleaseAll() error {
	var errs []error

	for name, line := range r.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("lower %s: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("release errors: %v", errs)
	}
	return nil
}
