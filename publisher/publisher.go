// Package publisher publishes typed messages to an AMQP exchange.
package publisher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/connection"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

type (
	Pub[T any] interface {
		Publish(ctx context.Context, msg T) error
	}

	Publisher[T any] struct {
		serializer  serializer.Serializer[T]
		logger      amqp.Logger
		conn        *connection.Connection
		ch          *amqp091.Channel
		cancel      context.CancelFunc
		close       func() error
		exchange    ExchangeDeclare
		messageType string
		wg          sync.WaitGroup
		ready       guardLock
		closed      atomic.Bool
	}

	ExchangeDeclare struct {
		Args       amqp091.Table
		name       string
		RoutingKey string
		Type       ExchangeType
		Durable    bool
		AutoDelete bool
		Internal   bool
		NoWait     bool
	}
)

var _ Pub[any] = (*Publisher[any])(nil)

func (e ExchangeDeclare) declare(ch *amqp091.Channel, logger amqp.Logger) error {
	err := ch.ExchangeDeclare(e.name, e.Type.String(), e.Durable, e.AutoDelete, e.Internal, e.NoWait, e.Args)
	if err != nil {
		logger.Error("Failed to declare exchange: %s(%s) %v", e.name, e.Type, err)
		return err
	}

	return nil
}

func New[T any](ctx context.Context, connConfig connection.Config, exchangeName string, options ...Option[T]) (*Publisher[T], error) {
	if exchangeName == "" {
		return nil, ErrExchangeNameRequired
	}

	cfg := Config[T]{
		serializer:  serializer.JSON[T]{},
		logger:      amqp.EmptyLogger{},
		messageType: contracts.MessageType[T](),
		exchange: ExchangeDeclare{
			name:    exchangeName,
			Type:    ExchangeTypeFanout,
			Durable: true,
		},
	}

	for _, option := range options {
		option(&cfg)
	}

	if cfg.onError == nil {
		cfg.onError = func(err error) {
			cfg.logger.Error("Publisher connection error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)

	publisher := &Publisher[T]{
		serializer:  cfg.serializer,
		logger:      cfg.logger,
		cancel:      cancel,
		exchange:    cfg.exchange,
		messageType: cfg.messageType,
	}

	conn, err := connection.New(ctx, connConfig, connection.Events{
		OnConnectionReady: publisher.onConnectionReady(cfg),
		OnBeforeConnectionReady: func(context.Context) error {
			publisher.ready.Lock()
			return nil
		},
		OnError: cfg.onError,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	publisher.conn = conn
	publisher.close = sync.OnceValue(func() error {
		publisher.closed.Store(true)
		publisher.cancel()
		publisher.wg.Wait()

		return publisher.conn.Close()
	})

	return publisher, nil
}

func (p *Publisher[T]) onConnectionReady(cfg Config[T]) connection.OnConnectionReady {
	return func(ctx context.Context, conn *amqp091.Connection) error {
		ch, notifyClose, err := newChannel(conn, cfg.exchange, cfg.logger)
		if err != nil {
			return err
		}

		p.ch = ch
		p.ready.Unlock()

		p.wg.Add(1)
		go p.watch(ctx, conn, notifyClose, cfg)

		return nil
	}
}

// watch replaces the channel when the broker closes it while the
// connection stays open.
func (p *Publisher[T]) watch(ctx context.Context, conn *amqp091.Connection, notifyClose chan *amqp091.Error, cfg Config[T]) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.ready.Lock()
			if p.ch != nil && !p.ch.IsClosed() {
				if err := p.ch.Close(); err != nil {
					cfg.logger.Error("Failed to close channel: %v", err)
				}
			}
			p.ready.Unlock()
			return
		case amqpErr, ok := <-notifyClose:
			if !ok {
				return
			}

			if conn.IsClosed() {
				cfg.logger.Error("Connection closed: %v", amqpErr)
				return
			}

			cfg.logger.Error("Channel Error: %v", amqpErr)

			p.ready.Lock()
			ch, nc, err := newChannel(conn, cfg.exchange, cfg.logger)
			if err != nil {
				p.ch = nil
				p.ready.Unlock()
				return
			}

			p.ch = ch
			notifyClose = nc
			p.ready.Unlock()
		}
	}
}

func newChannel(
	connection *amqp091.Connection,
	exchange ExchangeDeclare,
	logger amqp.Logger,
) (*amqp091.Channel, chan *amqp091.Error, error) {
	ch, err := connection.Channel()
	if err != nil {
		logger.Error("Failed to get channel: %v", err)
		return nil, nil, err
	}

	if err := exchange.declare(ch, logger); err != nil {
		return nil, nil, err
	}

	notifyClose := ch.NotifyClose(make(chan *amqp091.Error, 1))

	return ch, notifyClose, nil
}

func (p *Publisher[T]) Publish(ctx context.Context, msg T) error {
	return p.PublishWithHeaders(ctx, msg, nil)
}

// PublishWithHeaders publishes msg with additional AMQP headers. Every
// publishing gets a fresh message id and the message type URN of T.
// ErrChannelNotReady is returned while the connection is being
// re-established.
func (p *Publisher[T]) PublishWithHeaders(ctx context.Context, msg T, headers amqp091.Table) error {
	if p.closed.Load() {
		return ErrClosed
	}

	body, err := p.serializer.Marshal(msg)
	if err != nil {
		return err
	}

	if !p.ready.TryRLock() {
		return ErrChannelNotReady
	}
	defer p.ready.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	if p.ch == nil || p.ch.IsClosed() {
		return ErrChannelNotReady
	}

	return p.ch.PublishWithContext(
		ctx,
		p.exchange.name,
		p.exchange.RoutingKey,
		false,
		false,
		amqp091.Publishing{
			Headers:      headers,
			ContentType:  p.serializer.GetContentType(),
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Type:         p.messageType,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Ready reports whether a channel is available for publishing.
func (p *Publisher[T]) Ready() bool {
	return !p.closed.Load() && !p.ready.Locked()
}

func (p *Publisher[T]) Exchange() string {
	return p.exchange.name
}

func (p *Publisher[T]) Close() error {
	return p.close()
}
