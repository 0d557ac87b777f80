package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subject string
	subs    []*nats.Subscription
}

// NewSubscriber connects to NATS. Events are consumed by the durable consumer
// named durable, filtered to subject (for example "itinerary.edited.>").
func NewSubscriber(url, durable, subject string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js, durable: durable, subject: subject}, nil
}

func (s *Subscriber) SubscribeItineraryEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ItineraryEvent) error) error {
	sub, err := s.js.Subscribe(s.subject, func(msg *nats.Msg) {
		var event domain.ItineraryEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// malformed payloads never succeed; drop them
			slog.Warn("discarding malformed itinerary event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			slog.Error("itinerary event handler failed", "trip_id", event.TripID, "version", event.Version, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.subject, err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
