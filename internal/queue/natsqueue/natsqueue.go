// Package natsqueue implements queue.Backend over github.com/nats-io/nats.go,
// grounded on the pack's NATS client wiring (connection-event handlers,
// per-subject subscription bookkeeping) adapted to the generic
// publish/subscribe contract.
package natsqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/adred-codev/envelopes/internal/obslog"
	"github.com/adred-codev/envelopes/internal/queue"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Config holds connection parameters for a Backend.
type Config struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Backend is a queue.Backend backed by a single NATS subject.
type Backend struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
	sub     *nats.Subscription
}

// New connects to the configured NATS server and returns a ready Backend.
func New(cfg Config, logger zerolog.Logger) (*Backend, error) {
	if cfg.Subject == "" {
		return nil, fmt.Errorf("natsqueue: subject is required")
	}

	b := &Backend{subject: cfg.Subject, logger: logger}

	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ConnectHandler(func(c *nats.Conn) {
			obslog.RecordQueueConnected("nats", true)
			logger.Info().Str("url", c.ConnectedUrl()).Msg("connected to NATS")
		}),
		nats.DisconnectErrHandler(func(c *nats.Conn, err error) {
			obslog.RecordQueueConnected("nats", false)
			if err != nil {
				obslog.RecordError(obslog.ErrorTypeQueue, obslog.SeverityWarning)
				logger.Warn().Err(err).Msg("disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			obslog.RecordQueueConnected("nats", true)
			logger.Info().Str("url", c.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ErrorHandler(func(c *nats.Conn, s *nats.Subscription, err error) {
			obslog.RecordError(obslog.ErrorTypeQueue, obslog.SeverityWarning)
			logger.Error().Err(err).Msg("NATS error")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("natsqueue: connect: %w", err)
	}
	b.conn = conn
	obslog.RecordQueueConnected("nats", true)

	return b, nil
}

// Publish sends msg's body to the configured subject. NATS attributes
// are carried as headers when supported by the server; this client
// targets core NATS, so attributes are dropped (headers require
// JetStream-enabled servers, out of scope for the demo harness).
func (b *Backend) Publish(ctx context.Context, msg queue.Message) error {
	if err := b.conn.Publish(b.subject, []byte(msg.Body)); err != nil {
		return fmt.Errorf("natsqueue: publish: %w", err)
	}
	obslog.RecordPublished("nats")
	return nil
}

// Subscribe delivers messages received on the configured subject to
// handler until ctx is cancelled.
func (b *Backend) Subscribe(ctx context.Context, handler queue.Handler) error {
	sub, err := b.conn.Subscribe(b.subject, func(m *nats.Msg) {
		obslog.RecordReceived("nats")
		if err := handler(ctx, queue.Message{Body: string(m.Data)}); err != nil {
			obslog.RecordError(obslog.ErrorTypeQueue, obslog.SeverityWarning)
			b.logger.Error().Err(err).Str("subject", b.subject).Msg("handler failed")
		}
	})
	if err != nil {
		return fmt.Errorf("natsqueue: subscribe: %w", err)
	}
	b.sub = sub

	<-ctx.Done()
	return nil
}

// Close unsubscribes and closes the connection without draining it.
func (b *Backend) Close() error {
	if b.sub != nil {
		_ = b.sub.Unsubscribe()
	}
	b.conn.Close()
	obslog.RecordQueueConnected("nats", false)
	return nil
}

var _ queue.Backend = (*Backend)(nil)
