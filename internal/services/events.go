package services

import (
	"context"
	"encoding/json"
	"fmt"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Event subjects published after successful mutations
const (
	SubjectConnectionRequested = "connection.requested"
	SubjectConnectionAccepted  = "connection.accepted"
	SubjectConnectionRemoved   = "connection.removed"
	SubjectPostCreated         = "post.created"
)

// EventPublisher publishes domain events for other services
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// NatsPublisher publishes JSON events on a NATS connection
type NatsPublisher struct {
	nc *nats.Conn
}

// NewNatsPublisher creates a publisher on an open connection
func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// Publish marshals event and publishes it on subject
func (p *NatsPublisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	if id := chiMiddleware.GetReqID(ctx); id != "" {
		msg.Header.Set("X-Request-Id", id)
	}

	log.Debug().Str("subject", subject).Msg("Publishing event")

	return p.nc.PublishMsg(msg)
}

// NoopPublisher drops events; used when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, subject string, event any) error { return nil }
