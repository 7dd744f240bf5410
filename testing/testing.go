// Package testing holds broker fixtures for integration tests. Every
// fixture skips the test unless AMQP_INTEGRATION is set.
package testing

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/nano-interactive/go-amqp-contracts/connection"
)

const IntegrationEnv = "AMQP_INTEGRATION"

// RequireBroker skips t unless a broker is available.
func RequireBroker(t testing.TB) {
	t.Helper()

	if os.Getenv(IntegrationEnv) == "" {
		t.Skipf("%s is not set", IntegrationEnv)
	}
}

func GetAMQPConnection(t testing.TB, cfg connection.Config) (*amqp091.Connection, *amqp091.Channel) {
	t.Helper()
	RequireBroker(t)

	properties := amqp091.NewConnectionProperties()
	properties.SetClientConnectionName("testing_connection_name")

	config := amqp091.Config{
		Vhost:      cfg.Vhost,
		ChannelMax: 1000,
		Properties: properties,
		Dial:       amqp091.DefaultDial(10 * time.Second),
	}

	conn, err := amqp091.DialConfig(cfg.URI(), config)
	if err != nil {
		t.Fatal(err)
	}

	ch, err := conn.Channel()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if !ch.IsClosed() {
			if err = ch.Close(); err != nil {
				t.Logf("error closing channel: %v", err)
			}
		}

		if err = conn.Close(); err != nil {
			t.Logf("error closing connection: %v", err)
		}
	})

	return conn, ch
}

// Mappings declares fanout exchanges bound to queues, with names made
// unique per test, and deletes them on cleanup.
type Mappings struct {
	t         testing.TB
	channel   *amqp091.Channel
	exchanges map[string]string
	queues    map[string]string
	mu        sync.Mutex
}

func NewMappings(t testing.TB) *Mappings {
	t.Helper()

	_, channel := GetAMQPConnection(t, connection.DefaultConfig)

	return &Mappings{
		t:         t,
		channel:   channel,
		exchanges: make(map[string]string),
		queues:    make(map[string]string),
	}
}

func (m *Mappings) unique(name string) string {
	return name + "-" + strings.NewReplacer("/", "_", " ", "_").Replace(m.t.Name())
}

// AddMapping declares exchange (durable fanout) and queue (non-durable, as
// consumer.QueueDeclare declares it by default) and binds them.
func (m *Mappings) AddMapping(exchange, queue string) *Mappings {
	m.t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	exchangeName := m.unique(exchange)
	queueName := m.unique(queue)

	if err := m.channel.ExchangeDeclare(exchangeName, amqp091.ExchangeFanout, true, false, false, false, nil); err != nil {
		m.t.Fatal(err)
	}

	if _, err := m.channel.QueueDeclare(queueName, false, false, false, false, nil); err != nil {
		m.t.Fatal(err)
	}

	if err := m.channel.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		m.t.Fatal(err)
	}

	m.exchanges[exchange] = exchangeName
	m.queues[queue] = queueName

	m.t.Cleanup(func() {
		_, _ = m.channel.QueueDelete(queueName, false, false, false)
		_ = m.channel.ExchangeDelete(exchangeName, false, false)
	})

	return m
}

func (m *Mappings) Exchange(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.exchanges[name]
}

func (m *Mappings) Queue(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.queues[name]
}

// ConsumeAMQPDeliveries acks and returns every delivery that arrives on
// queue within timeout.
func ConsumeAMQPDeliveries(t testing.TB, queue string, cfg connection.Config, timeout time.Duration) []amqp091.Delivery {
	t.Helper()
	_, channel := GetAMQPConnection(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ch, err := channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	deliveries := make([]amqp091.Delivery, 0, 10)

	for {
		select {
		case d, more := <-ch:
			if !more {
				return deliveries
			}

			if err = d.Ack(false); err != nil {
				t.Fatal(err)
			}

			deliveries = append(deliveries, d)
		case <-ctx.Done():
			return deliveries
		}
	}
}

// ConsumeAMQPMessages decodes the JSON bodies of ConsumeAMQPDeliveries.
func ConsumeAMQPMessages[T any](t testing.TB, queue string, cfg connection.Config, timeout time.Duration) []T {
	t.Helper()

	deliveries := ConsumeAMQPDeliveries(t, queue, cfg, timeout)
	messages := make([]T, 0, len(deliveries))

	for _, d := range deliveries {
		var data T

		if err := json.Unmarshal(d.Body, &data); err != nil {
			t.Fatal(err)
		}

		messages = append(messages, data)
	}

	return messages
}

func PublishAMQPMessage[T any](t testing.TB, exchange string, cfg connection.Config, msg T) {
	t.Helper()
	_, channel := GetAMQPConnection(t, cfg)

	message, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	err = channel.PublishWithContext(
		context.Background(),
		exchange,
		"",
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         message,
		},
	)
	if err != nil {
		t.Fatal(err)
	}
}
