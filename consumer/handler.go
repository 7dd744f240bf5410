package consumer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

// ErrNoRetry makes the consumer reject the message without requeueing it.
var ErrNoRetry = errors.New("no retry")

// deliveryCountHeader is maintained by the broker on quorum queues.
const deliveryCountHeader = "x-delivery-count"

type (
	RawHandler interface {
		Handle(context.Context, *amqp091.Delivery) error
	}

	Handler[T any] interface {
		Handle(context.Context, T) error
	}

	HandlerFunc[T any] func(context.Context, T) error
	RawHandlerFunc     func(context.Context, *amqp091.Delivery) error

	handler[T any] struct {
		serializer serializer.Serializer[T]
		handler    Handler[T]
		faults     FaultPublisher[T]
		logger     amqp.Logger
		retryCount uint32
	}
)

func (h HandlerFunc[T]) Handle(ctx context.Context, body T) error {
	return h(ctx, body)
}

func (h RawHandlerFunc) Handle(ctx context.Context, body *amqp091.Delivery) error {
	return h(ctx, body)
}

func (h handler[T]) Handle(ctx context.Context, delivery *amqp091.Delivery) error {
	body, err := h.serializer.Unmarshal(delivery.Body)
	if err != nil {
		_ = delivery.Reject(false)
		return err
	}

	if err = h.handler.Handle(ctx, body); err == nil {
		return delivery.Ack(false)
	}

	if !errors.Is(err, ErrNoRetry) && deliveryCount(delivery) < int64(h.retryCount) {
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			return errors.Join(err, nackErr)
		}

		return err
	}

	h.publishFault(ctx, delivery, body, err)

	if rejectErr := delivery.Reject(false); rejectErr != nil {
		return errors.Join(err, rejectErr)
	}

	return err
}

func (h handler[T]) publishFault(ctx context.Context, delivery *amqp091.Delivery, body T, cause error) {
	if h.faults == nil {
		return
	}

	var messageID *uuid.UUID
	if id, err := uuid.Parse(delivery.MessageId); err == nil {
		messageID = &id
	}

	if err := h.faults.Publish(ctx, contracts.NewFaultEvent(body, messageID, cause)); err != nil {
		h.logger.Error("Failed to publish fault for message %s: %v", delivery.MessageId, err)
	}
}

// deliveryCount returns how many times the message was delivered before.
// Classic queues only report whether it was redelivered at all.
func deliveryCount(delivery *amqp091.Delivery) int64 {
	switch v := delivery.Headers[deliveryCountHeader].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}

	if delivery.Redelivered {
		return 1
	}

	return 0
}
