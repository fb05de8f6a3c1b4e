package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rustyeddy/funds/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes alerts as JSON to a topic, keyed by account id so alerts
// for one account stay ordered.
type Kafka struct {
	w   messageWriter
	log logger.Logger
}

// NewKafka returns an async publisher. Write failures are logged.
func NewKafka(brokers []string, topic string, l logger.Logger) *Kafka {
	l = l.With("component", "notify.kafka", "topic", topic)
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				l.Errorf("%s: can't publish %d alerts", err, len(msgs))
			}
		},
	}
	return &Kafka{w: w, log: l}
}

func (k *Kafka) Notify(ctx context.Context, a Alert) {
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	payload, err := json.Marshal(a)
	if err != nil {
		k.log.Errorf("%s: can't marshal alert", err)
		return
	}
	if err := k.w.WriteMessages(ctx, kafka.Message{Key: []byte(a.AccountID), Value: payload}); err != nil {
		k.log.Errorf("%s: can't publish alert %s", err, a.Subject)
	}
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
