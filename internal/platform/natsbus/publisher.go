package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/phrazzld/tales-api/internal/events"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Connect dials the NATS server at url with reconnects enabled. Connection
// state changes are logged to l.
func Connect(url string, l *slog.Logger) (*nats.Conn, error) {
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("component", "nats"))

	nc, err := nats.Connect(url,
		nats.Name("tales-api"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info("reconnected to NATS", slog.String("url", redact.String(nc.ConnectedUrl())))
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn("NATS connection lost", slog.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// Publisher is an events.EventHandler that publishes every event it
// receives to a single subject.
type Publisher struct {
	conn    Conn
	subject string
	logger  *slog.Logger
}

var _ events.EventHandler = (*Publisher)(nil)

// NewPublisher creates a publisher writing to subject over conn.
func NewPublisher(conn Conn, subject string, l *slog.Logger) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("nats connection cannot be nil")
	}
	if subject == "" {
		return nil, errors.New("subject cannot be empty")
	}
	if l == nil {
		l = slog.Default()
	}
	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  l.With(slog.String("component", "nats_publisher")),
	}, nil
}

// HandleEvent implements events.EventHandler.
func (p *Publisher) HandleEvent(ctx context.Context, event *events.StoryEvent) error {
	log := logger.FromContextOrDefault(ctx, p.logger)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", p.subject, err)
	}

	log.Debug("published event",
		slog.String("subject", p.subject),
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))
	return nil
}
