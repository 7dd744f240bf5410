package connection

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

type (
	// OnConnectionReady is invoked after every successful dial, including
	// reconnects. Channels, exchanges and queues are declared here.
	OnConnectionReady  func(context.Context, *amqp091.Connection) error
	OnReconnectingFunc func(context.Context) error
	OnErrorFunc        func(error)

	Events struct {
		OnConnectionReady       OnConnectionReady  `json:"-" mapstructure:"-" yaml:"-"`
		OnBeforeConnectionReady OnReconnectingFunc `json:"-" mapstructure:"-" yaml:"-"`
		OnError                 OnErrorFunc        `json:"-" mapstructure:"-" yaml:"-"`
	}
)
