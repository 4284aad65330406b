package mqtt

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/keegan/growroom/internal/control"
)

// bufferCapacity bounds how many state-change messages are held while
// the broker is unreachable.
const bufferCapacity = 64

// Publisher publishes to an actual MQTT broker. Relay transitions and
// system events are buffered while disconnected and replayed on
// reconnect; telemetry snapshots are not (a missed snapshot is retried
// at the next cadence by the scheduler's cursor).
type Publisher struct {
	client paho.Client
	log    *slog.Logger

	mu  sync.Mutex
	buf *ringBuffer
}

// NewPublisher creates a publisher for the given broker and starts
// connecting. A broker outage never blocks the caller: the paho client
// keeps retrying in the background and IsConnected reports the state.
func NewPublisher(broker string, log *slog.Logger) *Publisher {
	p := &Publisher{
		log: log,
		buf: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("growroom-controller").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.replay() })

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// PublishTransition sends a relay transition. QoS 1: state changes are
// the record of what the controller did.
func (p *Publisher) PublishTransition(e control.TransitionEvent) error {
	payload, err := FormatTransition(e)
	if err != nil {
		return fmt.Errorf("format transition: %w", err)
	}
	return p.send(TopicEvents, 1, false, payload, true)
}

// PublishTelemetry sends a periodic snapshot. QoS 0, not buffered.
func (p *Publisher) PublishTelemetry(s control.TelemetrySnapshot) error {
	payload, err := FormatTelemetry(s)
	if err != nil {
		return fmt.Errorf("format telemetry: %w", err)
	}
	return p.send(TopicTelemetry, 0, false, payload, false)
}

// PublishSystem sends a lifecycle event, retained so late subscribers
// see the last known lifecycle state.
func (p *Publisher) PublishSystem(e control.SystemEvent) error {
	payload, err := FormatSystem(e)
	if err != nil {
		return fmt.Errorf("format system: %w", err)
	}
	return p.send(TopicSystem, 1, true, payload, true)
}

func (p *Publisher) send(topic string, qos byte, retained bool, payload []byte, buffer bool) error {
	if !p.client.IsConnected() {
		if !buffer {
			return fmt.Errorf("publish %s: broker disconnected", topic)
		}
		p.mu.Lock()
		dropped := p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.buf.len()
		p.mu.Unlock()
		if dropped {
			p.log.Warn("mqtt buffer full, dropped oldest message", "capacity", bufferCapacity)
		}
		p.log.Warn("broker disconnected, buffered message", "topic", topic, "buffered", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// replay flushes buffered messages after a reconnect.
func (p *Publisher) replay() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	for _, m := range msgs {
		p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	if len(msgs) > 0 {
		p.log.Info("replayed buffered mqtt messages", "count", len(msgs))
	}
}

// IsConnected reports whether the broker connection is up.
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
