// Package consumer reads messages from an AMQP queue and hands them to a
// typed handler.
package consumer

import (
	"context"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/connection"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

type Consumer[T any] struct {
	handler        RawHandler
	logger         amqp.Logger
	onMessageError func(context.Context, *amqp091.Delivery, error)
	onError        connection.OnErrorFunc
	cancel         context.CancelFunc
	err            error
	connConfig     connection.Config
	queue          QueueDeclare
	queueConfig    QueueConfig
	listeners      sync.WaitGroup
	running        sync.WaitGroup
	mu             sync.Mutex
	started        bool
	stopping       bool
}

func newConfig[T any](options []Option[T]) Config[T] {
	cfg := Config[T]{
		serializer:  serializer.JSON[T]{},
		logger:      amqp.EmptyLogger{},
		queueConfig: DefaultQueueConfig,
	}

	for _, option := range options {
		option(&cfg)
	}

	if cfg.onMessageError == nil {
		cfg.onMessageError = func(_ context.Context, d *amqp091.Delivery, err error) {
			cfg.logger.Error("Failed to handle message %s: %v", d.MessageId, err)
		}
	}

	if cfg.onError == nil {
		cfg.onError = func(err error) {
			cfg.logger.Error("Consumer connection error: %v", err)
		}
	}

	return cfg
}

func New[T any](h Handler[T], connConfig connection.Config, queue QueueDeclare, options ...Option[T]) (*Consumer[T], error) {
	if h == nil {
		return nil, ErrHandlerRequired
	}

	cfg := newConfig(options)

	return newConsumer(handler[T]{
		serializer: cfg.serializer,
		handler:    h,
		faults:     cfg.faults,
		logger:     cfg.logger,
		retryCount: cfg.retryCount,
	}, connConfig, queue, cfg)
}

func NewFunc[T any](h HandlerFunc[T], connConfig connection.Config, queue QueueDeclare, options ...Option[T]) (*Consumer[T], error) {
	if h == nil {
		return nil, ErrHandlerRequired
	}

	return New[T](h, connConfig, queue, options...)
}

// NewRaw consumes deliveries without decoding them. The handler settles
// every delivery itself; T only selects the option set.
func NewRaw[T any](h RawHandler, connConfig connection.Config, queue QueueDeclare, options ...Option[T]) (*Consumer[T], error) {
	if h == nil {
		return nil, ErrHandlerRequired
	}

	return newConsumer(h, connConfig, queue, newConfig(options))
}

func newConsumer[T any](h RawHandler, connConfig connection.Config, queue QueueDeclare, cfg Config[T]) (*Consumer[T], error) {
	if queue.QueueName == "" {
		return nil, ErrQueueNameRequired
	}

	return &Consumer[T]{
		handler:        h,
		logger:         cfg.logger,
		onMessageError: cfg.onMessageError,
		onError:        cfg.onError,
		connConfig:     connConfig,
		queue:          queue,
		queueConfig:    cfg.queueConfig,
	}, nil
}

// Start connects, declares the queue and consumes with QueueConfig.Workers
// listeners. It blocks until ctx is done or Close is called, and starts
// the listeners again after every reconnect.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return nil
	}

	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.cancel = cancel
	c.running.Add(1)
	c.mu.Unlock()

	defer c.running.Done()

	conn, err := connection.New(ctx, c.connConfig, connection.Events{
		OnConnectionReady: c.onConnectionReady,
		OnError:           c.onError,
	})
	if err != nil {
		return &ListenerStartFailedError{Inner: err}
	}

	c.logger.Info("Consumer started on queue %s", c.queue.QueueName)

	<-ctx.Done()

	c.mu.Lock()
	c.stopping = true
	c.mu.Unlock()

	closeErr := conn.Close()
	c.listeners.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	return multierr.Append(c.err, closeErr)
}

func (c *Consumer[T]) onConnectionReady(ctx context.Context, conn *amqp091.Connection) error {
	if err := c.queue.declare(conn); err != nil {
		c.logger.Error("Failed to declare queue %s: %v", c.queue.QueueName, err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopping {
		return ctx.Err()
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for range c.queueConfig.Workers {
		l := newListener(c.queue.QueueName, c.queueConfig, conn, c.handler, c.onMessageError)
		group.Go(func() error {
			return l.Listen(groupCtx)
		})
	}

	c.listeners.Add(1)
	go func() {
		defer c.listeners.Done()

		if err := group.Wait(); err != nil {
			c.logger.Error("Listener on queue %s stopped: %v", c.queue.QueueName, err)

			c.mu.Lock()
			c.err = multierr.Append(c.err, err)
			c.mu.Unlock()
		}
	}()

	return nil
}

// Close stops a running consumer and waits for its listeners to finish.
func (c *Consumer[T]) Close() error {
	c.mu.Lock()
	c.stopping = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.running.Wait()

	return nil
}
