package relay

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetDrivesPin(t *testing.T) {
	pins := NewFakePins()
	a := NewActuator(pins, testLogger())

	if err := a.Set(Humidifier, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pins.Calls) != 1 {
		t.Fatalf("expected 1 pin call, got %d", len(pins.Calls))
	}
	if pins.Calls[0].Name != Humidifier || !pins.Calls[0].High {
		t.Errorf("unexpected call: %+v", pins.Calls[0])
	}
}

func TestSetIsIdempotent(t *testing.T) {
	pins := NewFakePins()
	a := NewActuator(pins, testLogger())

	a.Set(HeaterFan, true)
	a.Set(HeaterFan, true)
	a.Set(HeaterFan, true)

	if len(pins.Calls) != 1 {
		t.Errorf("repeated Set should hit hardware once, got %d calls", len(pins.Calls))
	}

	a.Set(HeaterFan, false)
	if len(pins.Calls) != 2 {
		t.Errorf("state change should hit hardware, got %d calls", len(pins.Calls))
	}
}

func TestSetFailureDoesNotRecordState(t *testing.T) {
	pins := NewFakePins()
	a := NewActuator(pins, testLogger())

	pins.SetError = errors.New("line busy")
	if err := a.Set(Humidifier, true); err == nil {
		t.Fatal("expected error")
	}

	// After the fault clears, the same command must reach hardware.
	pins.SetError = nil
	if err := a.Set(Humidifier, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pins.Calls) != 1 {
		t.Errorf("expected retried command to hit hardware, got %d calls", len(pins.Calls))
	}
}

func TestCloseReleasesOnce(t *testing.T) {
	pins := NewFakePins()
	a := NewActuator(pins, testLogger())

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error on second close: %v", err)
	}
	if pins.ReleaseCount != 1 {
		t.Errorf("expected exactly one ReleaseAll, got %d", pins.ReleaseCount)
	}

	if err := a.Set(Humidifier, true); err == nil {
		t.Error("Set after Close should fail")
	}
}
