package relay

// FakePins records pin commands for test assertions.
type FakePins struct {
	// Calls contains every SetPin invocation in order.
	Calls []PinCall

	// SetError, if set, will be returned by SetPin.
	SetError error

	// Released tracks if ReleaseAll was called.
	Released bool

	// ReleaseCount counts ReleaseAll calls.
	ReleaseCount int
}

// PinCall is one recorded SetPin invocation.
type PinCall struct {
	Name string
	High bool
}

// NewFakePins creates a FakePins for testing.
func NewFakePins() *FakePins {
	return &FakePins{}
}

// SetPin records the command.
func (f *FakePins) SetPin(name string, high bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Calls = append(f.Calls, PinCall{Name: name, High: high})
	return nil
}

// ReleaseAll marks the pins as released.
func (f *FakePins) ReleaseAll() error {
	f.Released = true
	f.ReleaseCount++
	return nil
}

// Reset clears recorded calls.
func (f *FakePins) Reset() {
	f.Calls = nil
	f.SetError = nil
	f.Released = false
	f.ReleaseCount = 0
}
