// Package notify tells other processes that a ledger source changed, so that
// they drop cached balances and viewers refresh.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/etnz/yootles"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic is the Kafka topic used when none is configured.
const DefaultTopic = "ledger_changed"

// EventRefresh is the only kind of event: the ledger source was refreshed.
const EventRefresh = "refresh"

// Event is the message published on every change.
type Event struct {
	ID     string    `json:"id"`
	Ledger string    `json:"ledger"`
	Event  string    `json:"event"`
	At     time.Time `json:"at"`
}

// messageWriter is the part of kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes change events to a Kafka topic, keyed by ledger name so
// that the events of one ledger stay ordered.
type Kafka struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafka returns a publisher writing to topic on brokers.
func NewKafka(brokers []string, topic string) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		now: time.Now,
	}
}

// LedgerChanged publishes a refresh event for the ledger name.
func (k *Kafka) LedgerChanged(ctx context.Context, name string) error {
	data, err := json.Marshal(Event{
		ID:     uuid.NewString(),
		Ledger: name,
		Event:  EventRefresh,
		At:     k.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(name), Value: data}); err != nil {
		return fmt.Errorf("could not publish change of %q: %w", name, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (k *Kafka) Close() error { return k.writer.Close() }

// Nop drops every notification.
type Nop struct{}

func (Nop) LedgerChanged(context.Context, string) error { return nil }

// New returns a Kafka publisher, or Nop when there is no broker.
func New(brokers []string, topic string) yootles.Notifier {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafka(brokers, topic)
}

// messageReader is the part of kafka.Reader used here.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Subscriber consumes change events published by any process.
type Subscriber struct {
	reader messageReader
}

// NewSubscriber returns a subscriber to topic on brokers. Processes sharing a
// group split the events between them, so every process should use its own.
func NewSubscriber(brokers []string, topic, group string) *Subscriber {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Subscriber{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: group,
		}),
	}
}

// Listen calls fn for each event until ctx is done. Malformed messages are
// logged and skipped.
func (s *Subscriber) Listen(ctx context.Context, fn func(Event)) error {
	for {
		m, err := s.reader.ReadMessage(ctx)
		if ctx.Err() != nil || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read change events: %w", err)
		}
		var e Event
		if err := json.Unmarshal(m.Value, &e); err != nil {
			log.Printf("skipping malformed change event at offset %d: %v", m.Offset, err)
			continue
		}
		fn(e)
	}
}

// Close closes the connection.
func (s *Subscriber) Close() error { return s.reader.Close() }
