package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher decouples event emission from delivery: callers enqueue onto a
// buffered channel and a single worker goroutine drains it into the wrapped
// Publisher. Enqueue never blocks; when the buffer is full the event is
// dropped with a warning. The channel is best-effort end to end, so a drop is
// no worse than a broker failure.
type Dispatcher struct {
	next   Publisher
	ch     chan UserEvent
	done   chan struct{}
	logger *logrus.Logger
}

func NewDispatcher(next Publisher, bufferSize int, logger *logrus.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	d := &Dispatcher{
		next:   next,
		ch:     make(chan UserEvent, bufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		switch ev.EventType {
		case TypeUserCreated:
			d.next.PublishCreated(ctx, ev.Email, ev.UserName)
		case TypeUserDeleted:
			d.next.PublishDeleted(ctx, ev.Email, ev.UserName)
		}
		cancel()
	}
}

func (d *Dispatcher) PublishCreated(_ context.Context, email, name string) {
	d.enqueue(NewUserEvent(TypeUserCreated, email, name))
}

func (d *Dispatcher) PublishDeleted(_ context.Context, email, name string) {
	d.enqueue(NewUserEvent(TypeUserDeleted, email, name))
}

func (d *Dispatcher) enqueue(ev UserEvent) {
	select {
	case d.ch <- ev:
	default:
		if d.logger != nil {
			d.logger.WithFields(logrus.Fields{
				"event_type": ev.EventType,
				"email":      ev.Email,
			}).Warn("event buffer full, dropping event")
		}
	}
}

// Close stops accepting events, waits for the worker to drain the buffer and
// closes the wrapped publisher.
func (d *Dispatcher) Close() error {
	close(d.ch)
	<-d.done
	return d.next.Close()
}

var _ Publisher = (*Dispatcher)(nil)
