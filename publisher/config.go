package publisher

import (
	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/connection"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

type (
	Config[T any] struct {
		serializer  serializer.Serializer[T]
		logger      amqp.Logger
		onError     connection.OnErrorFunc
		exchange    ExchangeDeclare
		messageType string
	}

	Option[T any] func(*Config[T])
)

func WithExchangeDeclare[T any](exchange ExchangeDeclare) Option[T] {
	return func(c *Config[T]) {
		name := c.exchange.name
		c.exchange = exchange
		c.exchange.name = name
	}
}

func WithRoutingKey[T any](routingKey string) Option[T] {
	return func(c *Config[T]) {
		c.exchange.RoutingKey = routingKey
	}
}

func WithSerializer[T any](ser serializer.Serializer[T]) Option[T] {
	return func(c *Config[T]) {
		c.serializer = ser
	}
}

func WithOnErrorFunc[T any](onError connection.OnErrorFunc) Option[T] {
	return func(c *Config[T]) {
		c.onError = onError
	}
}

// WithMessageType overrides the message type stamped on every publishing.
func WithMessageType[T any](messageType string) Option[T] {
	return func(c *Config[T]) {
		c.messageType = messageType
	}
}

func WithLogger[T any](logger amqp.Logger) Option[T] {
	return func(c *Config[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}
