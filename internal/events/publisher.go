package events

import (
	"context"
	"encoding/json"

	skafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Writer defines the subset of the kafka writer the producer needs. It keeps
// the producer testable with a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Publisher is the outbound side of the notification channel. Both methods
// are best-effort: delivery failure must never fail or roll back the user
// operation that triggered it.
type Publisher interface {
	PublishCreated(ctx context.Context, email, name string)
	PublishDeleted(ctx context.Context, email, name string)
	Close() error
}

// KafkaPublisher writes user events as JSON to a single topic, keyed by
// email. Errors are logged and swallowed.
type KafkaPublisher struct {
	writer Writer
	logger *logrus.Logger
}

// NewKafkaPublisher creates a publisher writing to the given broker(s)/topic.
func NewKafkaPublisher(brokers []string, topic string, logger *logrus.Logger) *KafkaPublisher {
	w := &skafka.Writer{
		Addr:     skafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &skafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishCreated(ctx context.Context, email, name string) {
	p.publish(ctx, NewUserEvent(TypeUserCreated, email, name))
}

func (p *KafkaPublisher) PublishDeleted(ctx context.Context, email, name string) {
	p.publish(ctx, NewUserEvent(TypeUserDeleted, email, name))
}

func (p *KafkaPublisher) publish(ctx context.Context, ev UserEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		p.log(err, ev)
		return
	}
	msg := skafka.Message{Key: []byte(ev.Email), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log(err, ev)
	}
}

func (p *KafkaPublisher) log(err error, ev UserEvent) {
	if p.logger == nil {
		return
	}
	p.logger.WithError(err).WithFields(logrus.Fields{
		"event_type": ev.EventType,
		"email":      ev.Email,
	}).Warn("user event publish failed")
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
