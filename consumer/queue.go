package consumer

import (
	"github.com/rabbitmq/amqp091-go"
)

// QueueDeclare describes the queue a consumer declares and reads from. When
// ExchangeName is set the queue is bound to it.
type QueueDeclare struct {
	Args         amqp091.Table
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Durable      bool
	AutoDelete   bool
	Exclusive    bool
	NoWait       bool
}

func (q QueueDeclare) declare(conn *amqp091.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return &QueueDeclarationError{Inner: err}
	}

	defer func() {
		if !ch.IsClosed() {
			_ = ch.Close()
		}
	}()

	if _, err = ch.QueueDeclare(q.QueueName, q.Durable, q.AutoDelete, q.Exclusive, q.NoWait, q.Args); err != nil {
		return &QueueDeclarationError{Inner: err}
	}

	if q.ExchangeName == "" {
		return nil
	}

	if err = ch.QueueBind(q.QueueName, q.RoutingKey, q.ExchangeName, q.NoWait, nil); err != nil {
		return &QueueDeclarationError{Inner: err}
	}

	return nil
}
