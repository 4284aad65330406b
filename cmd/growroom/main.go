// Command growroom runs the fruiting-room environmental controller: it
// polls a DHT22, drives the humidifier and heater/fan relays, and emits
// telemetry to MQTT, SQLite, CSV, and email.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/csvlog"
	"github.com/keegan/growroom/internal/mqtt"
	"github.com/keegan/growroom/internal/notify"
	"github.com/keegan/growroom/internal/relay"
	"github.com/keegan/growroom/internal/sensor"
	"github.com/keegan/growroom/internal/status"
	"github.com/keegan/growroom/internal/store"
	"github.com/keegan/growroom/internal/telemetry"
	"github.com/keegan/growroom/internal/web"
)

func main() {
	tick := flag.Duration("tick", control.DefaultTick, "Loop tick interval")
	poll := flag.Duration("poll", control.DefaultSensorPoll, "Sensor poll interval")
	humidityLow := flag.Float64("humidity-low", control.DefaultHumidityLow, "Humidifier ON below this %RH")
	humidityHigh := flag.Float64("humidity-high", control.DefaultHumidityHigh, "Humidifier OFF above this %RH")
	humidityCritical := flag.Float64("humidity-critical", control.DefaultCriticalHumidity, "Stall alert below this %RH while humidifier is ON (0 to disable)")
	tempLow := flag.Float64("temp-low", control.DefaultTempLow, "Heater/fan OFF below this C")
	tempHigh := flag.Float64("temp-high", control.DefaultTempHigh, "Heater/fan ON above this C")
	heaterMode := flag.String("heater-mode", string(control.ModeHysteresis), "Heater/fan control mode: hysteresis or duty")
	dutyPeriod := flag.Duration("duty-period", control.DefaultDutyPeriod, "Duty cycle period (duty mode)")
	dutyOn := flag.Duration("duty-on", control.DefaultDutyOn, "ON time per duty period (duty mode)")
	storeEvery := flag.Duration("store-every", control.DefaultStoreEvery, "SQLite persistence cadence (0 to disable)")
	publishEvery := flag.Duration("publish-every", control.DefaultPublishEvery, "MQTT telemetry cadence (0 to disable)")
	cooldown := flag.Duration("cooldown", notify.DefaultCooldown, "Minimum gap between repeat alerts per condition")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	dbPath := flag.String("db", "/var/lib/growroom/growroom.db", "SQLite database path (empty to disable)")
	csvPath := flag.String("csv", "/var/lib/growroom/readings.csv", "CSV log path (empty to disable)")
	httpAddr := flag.String("http", ":8080", "Admin HTTP address (empty to disable)")
	recipients := flag.String("recipients", "", "Comma-separated alert email addresses (empty disables email)")
	pinDHT := flag.Int("pin-dht", sensor.DefaultPin, "BCM pin number for the DHT22 data line")
	pinHumidifier := flag.Int("pin-humidifier", relay.DefaultPinHumidifier, "BCM pin number for the humidifier relay")
	pinHeater := flag.Int("pin-heater", relay.DefaultPinHeaterFan, "BCM pin number for the heater/fan relay")
	printReading := flag.Bool("print-reading", false, "Take one calibrated reading, print it, and exit")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	}))

	if err := run(log, options{
		tick:             *tick,
		poll:             *poll,
		humidityLow:      *humidityLow,
		humidityHigh:     *humidityHigh,
		humidityCritical: *humidityCritical,
		tempLow:          *tempLow,
		tempHigh:         *tempHigh,
		heaterMode:       *heaterMode,
		dutyPeriod:       *dutyPeriod,
		dutyOn:           *dutyOn,
		storeEvery:       *storeEvery,
		publishEvery:     *publishEvery,
		cooldown:         *cooldown,
		broker:           *broker,
		dbPath:           *dbPath,
		csvPath:          *csvPath,
		httpAddr:         *httpAddr,
		recipients:       parseRecipients(*recipients),
		pinDHT:           *pinDHT,
		pinHumidifier:    *pinHumidifier,
		pinHeater:        *pinHeater,
		printReading:     *printReading,
	}); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type options struct {
	tick             time.Duration
	poll             time.Duration
	humidityLow      float64
	humidityHigh     float64
	humidityCritical float64
	tempLow          float64
	tempHigh         float64
	heaterMode       string
	dutyPeriod       time.Duration
	dutyOn           time.Duration
	storeEvery       time.Duration
	publishEvery     time.Duration
	cooldown         time.Duration
	broker           string
	dbPath           string
	csvPath          string
	httpAddr         string
	recipients       []string
	pinDHT           int
	pinHumidifier    int
	pinHeater        int
	printReading     bool
}

func run(log *slog.Logger, opt options) error {
	mode, err := resolveMode(opt.heaterMode)
	if err != nil {
		return err
	}

	// Sensor.
	driver := sensor.NewDHT22(opt.pinDHT)
	defer driver.Close()
	source := sensor.NewSource(driver, sensor.DefaultMaxRetries, sensor.DefaultCalibration(), log)

	if opt.printReading {
		r, err := source.Read(time.Now())
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		fmt.Printf("%.1f C (%.1f F), %.1f %%RH\n", r.TempC, r.TempF, r.Humidity)
		return nil
	}

	// Relays.
	pins, err := relay.NewRealPins(map[string]int{
		relay.Humidifier: opt.pinHumidifier,
		relay.HeaterFan:  opt.pinHeater,
	})
	if err != nil {
		return fmt.Errorf("init relays: %w", err)
	}
	actuator := relay.NewActuator(pins, log)
	defer actuator.Close()

	// Email. SMTP credentials come from the environment (.env supported).
	var notifier control.Notifier
	if len(opt.recipients) > 0 {
		smtp, err := smtpFromEnv()
		if err != nil {
			return err
		}
		mailer := notify.NewSMTPMailer(smtp, log)
		notifier = notify.NewDispatcher(mailer, opt.cooldown, opt.recipients, log)
	} else {
		notifier = notify.NewDispatcher(nil, opt.cooldown, nil, log)
	}

	sinks := control.Sinks{}

	// SQLite.
	if opt.dbPath != "" {
		db, err := store.Open(opt.dbPath, log)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		sinks.Store = db
	}

	// CSV.
	if opt.csvPath != "" {
		csv, err := csvlog.New(opt.csvPath)
		if err != nil {
			return fmt.Errorf("open csv log: %w", err)
		}
		sinks.CSV = csv
	}

	// MQTT.
	var publisher *mqtt.Publisher
	if opt.broker != "" {
		publisher = mqtt.NewPublisher(opt.broker, log)
		defer publisher.Close()
		sinks.Bus = publisher
	}

	// Status tracker.
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:       opt.tick.Milliseconds(),
		SensorPollMs: opt.poll.Milliseconds(),
		HumidityLow:  opt.humidityLow,
		HumidityHigh: opt.humidityHigh,
		TempLow:      opt.tempLow,
		TempHigh:     opt.tempHigh,
		HeaterMode:   string(mode),
		Broker:       opt.broker,
		HTTPAddr:     opt.httpAddr,
	})
	sinks.Status = tracker

	cfg := control.Config{
		SensorPoll:       opt.poll,
		Humidity:         control.Hysteresis{Low: opt.humidityLow, High: opt.humidityHigh},
		Temperature:      control.Hysteresis{Low: opt.tempLow, High: opt.tempHigh, Inverted: true},
		HeaterMode:       mode,
		Duty:             control.DutyCycle{Period: opt.dutyPeriod, OnFor: opt.dutyOn},
		CriticalHumidity: opt.humidityCritical,
		StoreEvery:       opt.storeEvery,
		PublishEvery:     opt.publishEvery,
	}
	loop := control.NewLoop(cfg, source, actuator, notifier, telemetry.NewScheduler(), sinks, log)

	// Admin HTTP server.
	if opt.httpAddr != "" {
		srv := web.New(opt.httpAddr, tracker, loop)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("admin http server listening", "addr", opt.httpAddr)
	}

	if publisher != nil {
		if err := publisher.PublishSystem(control.SystemEvent{
			Time:  time.Now(),
			Event: "STARTUP",
		}); err != nil {
			log.Warn("startup event not published", "err", err)
		}

		// Keep the status page's connectivity indicator current.
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			t := time.NewTicker(5 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stop:
					return
				case <-t.C:
					tracker.SetMQTTConnected(publisher.IsConnected())
				}
			}
		}()
	}

	log.Info("started",
		"tick", opt.tick,
		"poll", opt.poll,
		"humidity", fmt.Sprintf("%.0f-%.0f", opt.humidityLow, opt.humidityHigh),
		"temp", fmt.Sprintf("%.0f-%.0f", opt.tempLow, opt.tempHigh),
		"heater_mode", mode,
		"broker", opt.broker,
	)

	ticker := time.NewTicker(opt.tick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return loop.Run(ticker.C, sigCh, time.Now)
}

// parseRecipients splits a comma-separated address list, dropping empty
// entries.
func parseRecipients(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func resolveMode(s string) (control.Mode, error) {
	switch control.Mode(s) {
	case control.ModeHysteresis:
		return control.ModeHysteresis, nil
	case control.ModeDuty:
		return control.ModeDuty, nil
	default:
		return "", fmt.Errorf("unknown heater mode %q (want hysteresis or duty)", s)
	}
}

// smtpFromEnv reads SMTP settings from the environment. A .env file in
// the working directory is loaded first if present, so credentials stay
// out of the unit file.
func smtpFromEnv() (notify.SMTPConfig, error) {
	_ = godotenv.Load()

	cfg := notify.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		Port:     587,
	}
	if p := os.Getenv("SMTP_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return cfg, fmt.Errorf("SMTP_PORT %q: %w", p, err)
		}
		cfg.Port = port
	}
	if cfg.Host == "" || cfg.From == "" {
		return cfg, fmt.Errorf("email recipients set but SMTP_HOST/SMTP_FROM missing from environment")
	}
	return cfg, nil
}
