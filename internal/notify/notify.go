// Package notify turns condition edges into email alerts, suppressing
// repeats of the same condition within a cooldown window.
package notify

import (
	"log/slog"
	"time"
)

// Key identifies an alert condition for debounce purposes.
type Key string

// Condition keys not tied to a relay transition.
const (
	KeySensorFailed    Key = "sensor-failed"
	KeySensorRecovered Key = "sensor-recovered"
	KeyHumidifierStall Key = "humidifier-stall"
)

// TransitionKey returns the condition key for a relay transition, e.g.
// "relay1-on".
func TransitionKey(relay string, on bool) Key {
	if on {
		return Key(relay + "-on")
	}
	return Key(relay + "-off")
}

// DefaultCooldown is the minimum interval between repeat alerts for the
// same condition key.
const DefaultCooldown = 30 * time.Minute

// Mailer delivers a single alert. Failures are logged only; delivery is
// fire-and-forget.
type Mailer interface {
	Send(subject, body string, to []string) error
}

// Dispatcher debounces alerts per condition key. Not safe for concurrent
// use; owned by the control loop.
type Dispatcher struct {
	mailer     Mailer
	cooldown   time.Duration
	recipients []string
	lastSent   map[Key]time.Time
	log        *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil mailer or empty recipient
// list disables delivery entirely.
func NewDispatcher(mailer Mailer, cooldown time.Duration, recipients []string, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		cooldown:   cooldown,
		recipients: recipients,
		lastSent:   make(map[Key]time.Time),
		log:        log,
	}
}

// Notify sends the alert unless one with the same key was sent within the
// cooldown window. Returns whether an alert was dispatched. A delivery
// error still counts as sent: alerting is at-most-once per window.
func (d *Dispatcher) Notify(now time.Time, key Key, subject, body string) bool {
	if d.mailer == nil || len(d.recipients) == 0 {
		return false
	}
	if last, ok := d.lastSent[key]; ok && now.Sub(last) < d.cooldown {
		d.log.Debug("alert suppressed by cooldown", "key", string(key))
		return false
	}
	d.lastSent[key] = now

	if err := d.mailer.Send(subject, body, d.recipients); err != nil {
		d.log.Error("alert delivery failed", "key", string(key), "err", err)
	} else {
		d.log.Info("alert sent", "key", string(key), "subject", subject)
	}
	return true
}
