// Package natsbus carries the same typed messages as the AMQP publisher and
// consumer over NATS subjects.
package natsbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/consumer"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/publisher"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

const (
	HeaderContentType = "Content-Type"
	HeaderMessageType = "Message-Type"
	HeaderMessageID   = "Message-Id"
)

var ErrContentType = errors.New("unexpected content type")

type Config struct {
	URL           string        `json:"url" mapstructure:"url" yaml:"url"`
	Name          string        `json:"name" mapstructure:"name" yaml:"name"`
	Timeout       time.Duration `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
	ReconnectWait time.Duration `json:"reconnect_wait" mapstructure:"reconnect_wait" yaml:"reconnect_wait"`
	MaxReconnects int           `json:"max_reconnects" mapstructure:"max_reconnects" yaml:"max_reconnects"`
}

var DefaultConfig = Config{
	URL:           nats.DefaultURL,
	Name:          "go-amqp",
	Timeout:       2 * time.Second,
	ReconnectWait: time.Second,
	MaxReconnects: 10,
}

// Connect dials the NATS server and reports connection events to logger.
func Connect(cfg Config, logger amqp.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = amqp.EmptyLogger{}
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(cfg.Timeout),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connection failed: %w", err)
	}

	return conn, nil
}

type Publisher[T any] struct {
	conn        *nats.Conn
	serializer  serializer.Serializer[T]
	subject     string
	messageType string
}

var _ publisher.Pub[any] = (*Publisher[any])(nil)

func NewPublisher[T any](conn *nats.Conn, subject string, ser serializer.Serializer[T]) *Publisher[T] {
	if ser == nil {
		ser = serializer.JSON[T]{}
	}

	return &Publisher[T]{
		conn:        conn,
		serializer:  ser,
		subject:     subject,
		messageType: contracts.MessageType[T](),
	}
}

func (p *Publisher[T]) message(msg T) (*nats.Msg, error) {
	body, err := p.serializer.Marshal(msg)
	if err != nil {
		return nil, err
	}

	m := nats.NewMsg(p.subject)
	m.Data = body
	m.Header.Set(HeaderContentType, p.serializer.GetContentType())
	m.Header.Set(HeaderMessageType, p.messageType)
	m.Header.Set(HeaderMessageID, uuid.NewString())

	return m, nil
}

// Publish sends msg and flushes, so a nil error means the server has it.
func (p *Publisher[T]) Publish(ctx context.Context, msg T) error {
	m, err := p.message(msg)
	if err != nil {
		return err
	}

	if err = p.conn.PublishMsg(m); err != nil {
		return err
	}

	return p.conn.FlushWithContext(ctx)
}

// Subscribe decodes every message on subject with ser and passes it to h.
// Messages with a foreign content type or an undecodable body are dropped
// and reported to logger.
func Subscribe[T any](
	ctx context.Context,
	conn *nats.Conn,
	subject string,
	ser serializer.Serializer[T],
	h consumer.Handler[T],
	logger amqp.Logger,
) (*nats.Subscription, error) {
	if ser == nil {
		ser = serializer.JSON[T]{}
	}

	if logger == nil {
		logger = amqp.EmptyLogger{}
	}

	return conn.Subscribe(subject, func(m *nats.Msg) {
		body, err := decode(m, ser)
		if err != nil {
			logger.Error("Failed to decode message on %s: %v", m.Subject, err)
			return
		}

		if err = h.Handle(ctx, body); err != nil {
			logger.Error("Failed to handle message %s on %s: %v", m.Header.Get(HeaderMessageID), m.Subject, err)
		}
	})
}

func decode[T any](m *nats.Msg, ser serializer.Serializer[T]) (T, error) {
	if ct := m.Header.Get(HeaderContentType); ct != "" && ct != ser.GetContentType() {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrContentType, ct)
	}

	return ser.Unmarshal(m.Data)
}
