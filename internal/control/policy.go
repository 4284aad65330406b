package control

import "time"

// Hysteresis is a two-threshold relay policy. With the normal sense the
// relay turns ON below Low and OFF at or above High (humidifier: supply
// what is lacking). With Inverted sense it turns ON at or above High and
// OFF below Low (heater/fan: respond to excess). Values between the
// thresholds hold the current state; the dead zone prevents rapid
// toggling at a single crossing point.
type Hysteresis struct {
	Low      float64
	High     float64
	Inverted bool
}

// Evaluate returns the desired relay state for the measured value.
func (p Hysteresis) Evaluate(value float64, current State) State {
	wantOn := value < p.Low
	wantOff := value >= p.High
	if p.Inverted {
		wantOn, wantOff = value >= p.High, value < p.Low
	}

	switch {
	case wantOn:
		return On
	case wantOff:
		return Off
	case current == Unknown:
		// Dead zone after an actuation fault: re-command the safe state.
		return Off
	default:
		return current
	}
}

// DutyCycle is a time-governed relay policy, independent of sensor input:
// a stable square wave with the relay ON for OnFor out of every Period.
// OFF holds until Period−OnFor has elapsed since the last toggle, ON
// holds until OnFor has elapsed. The caller resets its toggle timestamp
// whenever the governed relay transitions.
type DutyCycle struct {
	Period time.Duration
	OnFor  time.Duration
}

// Evaluate returns the desired state given the time of the last toggle.
func (p DutyCycle) Evaluate(now, lastToggle time.Time, current State) State {
	elapsed := now.Sub(lastToggle)
	if current == On {
		if elapsed >= p.OnFor {
			return Off
		}
		return On
	}
	// Off and Unknown both wait out the off portion.
	if elapsed >= p.Period-p.OnFor {
		return On
	}
	return Off
}
