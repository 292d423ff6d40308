package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/userhub/user-service/config"
	"github.com/userhub/user-service/internal/events"
	"github.com/userhub/user-service/pkg/helpers"
)

// event_logger tails the user-events topic and logs every event. It doubles
// as a smoke check that the service is actually publishing.
func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-logger", cfg.Env)

	reader := skafka.NewReader(skafka.ReaderConfig{
		Brokers:  cfg.Brokers(),
		Topic:    cfg.UserEventsTopic,
		GroupID:  "user-service-event-logger",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer func() { _ = reader.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	log.Printf("event logger listening on topic=%s", cfg.UserEventsTopic)
	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithError(err).Warn("fetch failed")
			time.Sleep(time.Second)
			continue
		}

		var ev events.UserEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			logger.WithError(err).WithField("offset", m.Offset).Warn("bad event payload")
		} else {
			logger.WithFields(logrus.Fields{
				"event_type": ev.EventType,
				"email":      ev.Email,
				"user_name":  ev.UserName,
				"timestamp":  ev.Timestamp,
			}).Info("user event")
		}

		if err := reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			logger.WithError(err).Warn("commit failed")
		}
	}
}
