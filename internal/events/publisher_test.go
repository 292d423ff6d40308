package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter is a test writer that records messages written.
type fakeWriter struct {
	msgs []skafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishCreated(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw, nil)

	p.PublishCreated(context.Background(), "john@example.com", "John Doe")

	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "john@example.com" {
		t.Fatalf("unexpected key: %s", fw.msgs[0].Key)
	}

	var ev UserEvent
	if err := json.Unmarshal(fw.msgs[0].Value, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.EventType != TypeUserCreated {
		t.Fatalf("expected %s, got %s", TypeUserCreated, ev.EventType)
	}
	if ev.Email != "john@example.com" || ev.UserName != "John Doe" {
		t.Fatalf("unexpected payload: %+v", ev)
	}
	if ev.Timestamp.IsZero() || ev.Timestamp.After(time.Now().Add(time.Second)) {
		t.Fatalf("bad timestamp: %v", ev.Timestamp)
	}
}

func TestPublishDeleted(t *testing.T) {
	fw := &fakeWriter{}
	p := NewKafkaPublisherWithWriter(fw, nil)

	p.PublishDeleted(context.Background(), "john@example.com", "John Doe")

	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	var ev UserEvent
	if err := json.Unmarshal(fw.msgs[0].Value, &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.EventType != TypeUserDeleted {
		t.Fatalf("expected %s, got %s", TypeUserDeleted, ev.EventType)
	}
}

func TestPublishSwallowsWriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisherWithWriter(fw, nil)

	// must not panic or propagate
	p.PublishCreated(context.Background(), "john@example.com", "John Doe")
	p.PublishDeleted(context.Background(), "john@example.com", "John Doe")
}
