package control

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/keegan/growroom/internal/notify"
	"github.com/keegan/growroom/internal/relay"
	"github.com/keegan/growroom/internal/sensor"
	"github.com/keegan/growroom/internal/store"
	"github.com/keegan/growroom/internal/telemetry"
)

// Config holds the loop's control parameters.
type Config struct {
	// SensorPoll gates how often the sensor is actually read. The outer
	// tick only keeps the loop responsive to shutdown and overrides.
	SensorPoll time.Duration

	// Humidity governs relay1 (humidifier), normal sense.
	Humidity Hysteresis

	// Temperature governs relay2 (heater/fan) in hysteresis mode,
	// inverted sense.
	Temperature Hysteresis

	// HeaterMode selects threshold or duty-cycle control for relay2.
	HeaterMode Mode

	// Duty applies when HeaterMode is ModeDuty.
	Duty DutyCycle

	// CriticalHumidity triggers the humidifier-stall alert when the
	// humidifier is ON yet humidity sits below this level. 0 disables.
	CriticalHumidity float64

	// StoreEvery and PublishEvery are the persistence and bus telemetry
	// cadences.
	StoreEvery   time.Duration
	PublishEvery time.Duration
}

// DefaultConfig returns the deployed installation's parameters.
func DefaultConfig() Config {
	return Config{
		SensorPoll:       DefaultSensorPoll,
		Humidity:         Hysteresis{Low: DefaultHumidityLow, High: DefaultHumidityHigh},
		Temperature:      Hysteresis{Low: DefaultTempLow, High: DefaultTempHigh, Inverted: true},
		HeaterMode:       ModeHysteresis,
		Duty:             DutyCycle{Period: DefaultDutyPeriod, OnFor: DefaultDutyOn},
		CriticalHumidity: DefaultCriticalHumidity,
		StoreEvery:       DefaultStoreEvery,
		PublishEvery:     DefaultPublishEvery,
	}
}

// Loop owns all mutable control state and sequences one tick at a time:
// drain overrides, read the sensor at its slower cadence, evaluate
// policies, actuate, notify, emit telemetry. Nothing here is fatal to
// the process except the shutdown signal.
type Loop struct {
	cfg      Config
	source   Sensor
	relays   Relays
	notifier Notifier
	sched    *telemetry.Scheduler
	sinks    Sinks
	log      *slog.Logger

	relay1         State
	relay2         State
	health         Health
	counts         Counts
	lastReading    *sensor.Reading
	lastPoll       time.Time
	dutyLastToggle time.Time

	overrides chan Override
}

// NewLoop wires a Loop. The scheduler's sink cadences are registered
// from cfg here; callers pass a fresh Scheduler.
func NewLoop(cfg Config, src Sensor, relays Relays, notifier Notifier, sched *telemetry.Scheduler, sinks Sinks, log *slog.Logger) *Loop {
	sched.Register(telemetry.SinkStore, cfg.StoreEvery)
	sched.Register(telemetry.SinkBus, cfg.PublishEvery)
	return &Loop{
		cfg:       cfg,
		source:    src,
		relays:    relays,
		notifier:  notifier,
		sched:     sched,
		sinks:     sinks,
		log:       log,
		relay1:    Unknown,
		relay2:    Unknown,
		overrides: make(chan Override, 8),
	}
}

// Override queues a manual relay command. The loop applies it at the top
// of its next tick. Returns an error if the mailbox is full.
func (l *Loop) Override(o Override) error {
	select {
	case l.overrides <- o:
		return nil
	default:
		return fmt.Errorf("override mailbox full, dropping %s", o.Relay)
	}
}

// Run drives the loop from the given tick and signal channels until a
// signal arrives, then shuts down: a final system event, then relay
// cleanup exactly once.
func (l *Loop) Run(tick <-chan time.Time, sig <-chan os.Signal, now func() time.Time) error {
	for {
		select {
		case s := <-sig:
			l.log.Info("received signal, shutting down", "signal", s.String())
			return l.shutdown(now(), s.String())
		case <-tick:
			l.Tick(now())
		}
	}
}

// Tick runs one loop iteration at the given instant. Exported so tests
// drive the loop with a fabricated clock.
func (l *Loop) Tick(now time.Time) {
	if l.dutyLastToggle.IsZero() {
		l.dutyLastToggle = now
	}

	l.drainOverrides(now)

	if l.lastPoll.IsZero() || now.Sub(l.lastPoll) >= l.cfg.SensorPoll {
		l.lastPoll = now
		l.safePoll(now)
	}
}

func (l *Loop) shutdown(now time.Time, reason string) error {
	if l.sinks.Bus != nil {
		ev := SystemEvent{Time: now, Event: "SHUTDOWN", Reason: reason}
		if err := l.sinks.Bus.PublishSystem(ev); err != nil {
			l.log.Error("failed to publish shutdown event", "err", err)
		}
	}
	if err := l.relays.Close(); err != nil {
		return fmt.Errorf("relay cleanup: %w", err)
	}
	l.log.Info("relay cleanup completed")
	return nil
}

func (l *Loop) drainOverrides(now time.Time) {
	for {
		select {
		case o := <-l.overrides:
			l.applyOverride(now, o)
		default:
			return
		}
	}
}

func (l *Loop) applyOverride(now time.Time, o Override) {
	var cur *State
	switch o.Relay {
	case relay.Humidifier:
		cur = &l.relay1
	case relay.HeaterFan:
		cur = &l.relay2
	default:
		l.log.Warn("override for unknown relay ignored", "relay", o.Relay)
		return
	}

	desired := Off
	if o.On {
		desired = On
	}
	l.counts.Overrides++
	l.transition(now, o.Relay, desired, cur, nil, "override")
	l.pushStatus()
}

// safePoll guards one control cycle: a fault in any step is logged and
// the loop continues at the next tick.
func (l *Loop) safePoll(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("control cycle fault", "panic", r)
		}
	}()
	l.poll(now)
}

func (l *Loop) poll(now time.Time) {
	reading, err := l.source.Read(now)
	if err != nil {
		l.counts.SensorFailures++
		l.log.Error("sensor read failed", "err", err, "consecutive", l.health.Failures+1)
		if l.health.RecordFailure() {
			l.notifier.Notify(now, notify.KeySensorFailed,
				"Sensor failed!",
				"DHT22 sensor in fruiting room failed! No readings after retries.")
		}
		// Skip policy evaluation: stale relay state is preserved rather
		// than guessed.
		l.pushStatus()
		return
	}

	if l.health.RecordSuccess() {
		l.notifier.Notify(now, notify.KeySensorRecovered,
			"Sensor is working",
			"DHT22 sensor in fruiting room is now working after previous failure.")
	}
	l.lastReading = &reading
	l.log.Info("sensor reading",
		"temp_c", reading.TempC, "temp_f", reading.TempF, "humidity", reading.Humidity)

	l.transition(now, relay.Humidifier,
		l.cfg.Humidity.Evaluate(reading.Humidity, l.relay1), &l.relay1, &reading, "policy")

	desired2 := l.cfg.Temperature.Evaluate(reading.TempC, l.relay2)
	if l.cfg.HeaterMode == ModeDuty {
		desired2 = l.cfg.Duty.Evaluate(now, l.dutyLastToggle, l.relay2)
	}
	l.transition(now, relay.HeaterFan, desired2, &l.relay2, &reading, "policy")

	// The ordinary threshold alert covers transitions; this one catches a
	// humidifier that is ON yet failing to raise humidity.
	if l.cfg.CriticalHumidity > 0 && l.relay1 == On && reading.Humidity < l.cfg.CriticalHumidity {
		l.notifier.Notify(now, notify.KeyHumidifierStall,
			"Humidifier fault suspected",
			fmt.Sprintf("Humidifier is ON but humidity is critically low: %.1f%% (threshold %.1f%%).",
				reading.Humidity, l.cfg.CriticalHumidity))
	}

	l.emitTelemetry(now, reading)
	l.pushStatus()
}

// transition actuates the relay if desired differs from the current
// record, keeping the record and the hardware command paired: the record
// is updated only when the command succeeds, and marked Unknown when it
// faults so the next pass re-commands the line.
func (l *Loop) transition(now time.Time, name string, desired State, cur *State, reading *sensor.Reading, source string) {
	if desired == *cur {
		return
	}

	if err := l.relays.Set(name, desired == On); err != nil {
		l.log.Error("relay actuation failed", "relay", name, "err", err)
		*cur = Unknown
		return
	}
	*cur = desired

	if name == relay.HeaterFan {
		l.dutyLastToggle = now
	}
	l.countTransition(name, desired)
	l.log.Info("relay transition", "relay", name, "state", string(desired), "source", source)

	l.notifier.Notify(now, notify.TransitionKey(name, desired == On),
		transitionSubject(name), transitionBody(name, desired, reading, source))

	ev := TransitionEvent{Time: now, Relay: name, State: desired, Reading: reading, Source: source}
	if l.sinks.Bus != nil {
		if err := l.sinks.Bus.PublishTransition(ev); err != nil {
			l.log.Error("transition publish failed", "relay", name, "err", err)
		}
	}
	if l.sinks.Store != nil {
		doc := store.Document{
			Time: now,
			Kind: store.KindRelayState,
			Fields: map[string]any{
				"relay":  name,
				"state":  string(desired),
				"source": source,
			},
		}
		if err := l.sinks.Store.Insert(doc); err != nil {
			l.log.Error("relay state insert failed", "relay", name, "err", err)
		}
	}
}

func (l *Loop) countTransition(name string, s State) {
	switch {
	case name == relay.Humidifier && s == On:
		l.counts.Relay1On++
	case name == relay.Humidifier && s == Off:
		l.counts.Relay1Off++
	case name == relay.HeaterFan && s == On:
		l.counts.Relay2On++
	case name == relay.HeaterFan && s == Off:
		l.counts.Relay2Off++
	}
}

func (l *Loop) emitTelemetry(now time.Time, reading sensor.Reading) {
	if l.sinks.CSV != nil {
		if err := l.sinks.CSV.Append(reading, l.relay1, l.relay2); err != nil {
			l.log.Error("csv append failed", "err", err)
		}
	}

	if l.sinks.Store != nil && l.sched.Due(telemetry.SinkStore, now) {
		doc := store.Document{
			Time: now,
			Kind: store.KindReading,
			Fields: map[string]any{
				"temperature_f": reading.TempF,
				"temperature_c": reading.TempC,
				"humidity":      reading.Humidity,
			},
		}
		if err := l.sinks.Store.Insert(doc); err != nil {
			l.log.Error("reading insert failed", "err", err)
		} else {
			l.sched.Advance(telemetry.SinkStore, now)
		}
	}

	if l.sinks.Bus != nil && l.sched.Due(telemetry.SinkBus, now) {
		snap := TelemetrySnapshot{
			Time:     now,
			Reading:  reading,
			Relay1:   l.relay1,
			Relay2:   l.relay2,
			SensorOK: !l.health.Failed(),
			Counts:   l.counts,
		}
		if err := l.sinks.Bus.PublishTelemetry(snap); err != nil {
			l.log.Error("telemetry publish failed", "err", err)
		} else {
			l.sched.Advance(telemetry.SinkBus, now)
		}
	}
}

func (l *Loop) pushStatus() {
	if l.sinks.Status == nil {
		return
	}
	l.sinks.Status.Update(l.lastReading, l.relay1, l.relay2, !l.health.Failed(), l.health.Failures, l.counts)
}

// States returns the current relay state records.
func (l *Loop) States() (relay1, relay2 State) {
	return l.relay1, l.relay2
}

func transitionSubject(name string) string {
	if name == relay.Humidifier {
		return "Humidifier Status"
	}
	return "Heater/Fan Status"
}

func transitionBody(name string, s State, reading *sensor.Reading, source string) string {
	device := "Humidifier"
	if name == relay.HeaterFan {
		device = "Heater/fan"
	}
	if source == "override" || reading == nil {
		return fmt.Sprintf("%s turned %s in fruiting room by manual override.", device, s)
	}
	if name == relay.Humidifier {
		return fmt.Sprintf("%s turned %s in fruiting room! Humidity level %.1f%%.", device, s, reading.Humidity)
	}
	return fmt.Sprintf("%s turned %s in fruiting room! Temperature %.1f C.", device, s, reading.TempC)
}
