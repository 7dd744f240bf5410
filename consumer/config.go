package consumer

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/connection"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/publisher"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

type (
	QueueConfig struct {
		Workers       int `json:"workers,omitempty" mapstructure:"workers" yaml:"workers"`
		PrefetchCount int `json:"prefetch_count,omitempty" mapstructure:"prefetch_count" yaml:"prefetch_count"`
	}

	// FaultPublisher receives the fault of every message that finally
	// failed.
	FaultPublisher[T any] publisher.Pub[contracts.Fault[T]]

	Config[T any] struct {
		serializer     serializer.Serializer[T]
		logger         amqp.Logger
		onMessageError func(context.Context, *amqp091.Delivery, error)
		onError        connection.OnErrorFunc
		faults         FaultPublisher[T]
		queueConfig    QueueConfig
		retryCount     uint32
	}

	Option[T any] func(*Config[T])
)

var DefaultQueueConfig = QueueConfig{
	Workers:       1,
	PrefetchCount: 128,
}

func WithQueueConfig[T any](cfg QueueConfig) Option[T] {
	return func(c *Config[T]) {
		if cfg.Workers < 1 {
			cfg.Workers = DefaultQueueConfig.Workers
		}

		if cfg.PrefetchCount < 1 {
			cfg.PrefetchCount = DefaultQueueConfig.PrefetchCount
		}

		c.queueConfig = cfg
	}
}

func WithLogger[T any](logger amqp.Logger) Option[T] {
	return func(c *Config[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithSerializer[T any](ser serializer.Serializer[T]) Option[T] {
	return func(c *Config[T]) {
		c.serializer = ser
	}
}

func WithOnMessageError[T any](onMessageError func(context.Context, *amqp091.Delivery, error)) Option[T] {
	return func(c *Config[T]) {
		c.onMessageError = onMessageError
	}
}

func WithOnErrorFunc[T any](onError connection.OnErrorFunc) Option[T] {
	return func(c *Config[T]) {
		c.onError = onError
	}
}

// WithRetryCount requeues a failed message until it has been redelivered
// count times.
func WithRetryCount[T any](count uint32) Option[T] {
	return func(c *Config[T]) {
		c.retryCount = count
	}
}

// WithFaultPublisher publishes a contracts.Fault[T] for every message the
// handler finally fails on.
func WithFaultPublisher[T any](pub FaultPublisher[T]) Option[T] {
	return func(c *Config[T]) {
		c.faults = pub
	}
}
