package sensor

// FakeDriver is a test double that returns scripted sensor samples.
type FakeDriver struct {
	// Samples contains scripted raw values to return.
	// Each Temperature/Humidity pair consumes one sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Resets counts Reset calls.
	Resets int

	// Closed tracks if Close was called.
	Closed bool

	// ResetError, if set, will be returned by Reset.
	ResetError error
}

// Sample represents one scripted raw sensor state. A missing channel
// models the partial reads the DHT22 produces under bus noise.
type Sample struct {
	TempC      float64
	Humidity   float64
	NoTemp     bool // Temperature returns not-ok
	NoHumidity bool // Humidity returns not-ok
}

// NewFakeDriver creates a FakeDriver with the given samples.
func NewFakeDriver(samples []Sample) *FakeDriver {
	return &FakeDriver{Samples: samples}
}

func (f *FakeDriver) current() Sample {
	if len(f.Samples) == 0 {
		return Sample{NoTemp: true, NoHumidity: true}
	}
	return f.Samples[f.index]
}

// Temperature returns the current sample's temperature channel.
func (f *FakeDriver) Temperature() (float64, bool) {
	s := f.current()
	if s.NoTemp {
		return 0, false
	}
	return s.TempC, true
}

// Humidity returns the current sample's humidity channel and advances to
// the next sample. If samples are exhausted, the last sample repeats.
func (f *FakeDriver) Humidity() (float64, bool) {
	s := f.current()
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	if s.NoHumidity {
		return 0, false
	}
	return s.Humidity, true
}

// Reset counts the reset.
func (f *FakeDriver) Reset() error {
	f.Resets++
	return f.ResetError
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Rewind resets the driver to the beginning of samples.
func (f *FakeDriver) Rewind() {
	f.index = 0
	f.Resets = 0
	f.Closed = false
}
