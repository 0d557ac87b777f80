package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/waypath/internal/core/domain"
)

const (
	// StreamName holds every itinerary event.
	StreamName = "ITINERARY_EVENTS"
	// SubjectPrefix is followed by "<event type>.<trip id>".
	SubjectPrefix = "itinerary"
)

// Subject returns the subject an event is published on.
func Subject(event *domain.ItineraryEvent) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, event.Type, event.TripID)
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and makes sure the itinerary stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js}, nil
}

func ensureStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ".>"},
		Retention: nats.InterestPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// PublishItineraryEvent publishes event on itinerary.<type>.<trip id>. The
// message id makes redelivered publishes of the same version idempotent.
func (p *Publisher) PublishItineraryEvent(ctx context.Context, event *domain.ItineraryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal itinerary event: %w", err)
	}
	msgID := fmt.Sprintf("%s-%s-v%d", event.TripID, event.Type, event.Version)
	if _, err := p.js.Publish(Subject(event), data, nats.Context(ctx), nats.MsgId(msgID)); err != nil {
		return fmt.Errorf("publish %s: %w", Subject(event), err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection, used directly by the WebSocket relay.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
