package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/nano-interactive/go-amqp-contracts"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
)

type Message struct {
	Name string `json:"name"`
}

type settlement struct {
	action  string
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	settled []settlement
}

func (f *fakeAcknowledger) record(s settlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled = append(f.settled, s)
	return nil
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	return f.record(settlement{action: "ack"})
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	return f.record(settlement{action: "nack", requeue: requeue})
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	return f.record(settlement{action: "reject", requeue: requeue})
}

type faultRecorder struct {
	faults []contracts.Fault[Message]
	err    error
}

func (f *faultRecorder) Publish(_ context.Context, fault contracts.Fault[Message]) error {
	f.faults = append(f.faults, fault)
	return f.err
}

func newDelivery(ack amqp091.Acknowledger, body string) *amqp091.Delivery {
	return &amqp091.Delivery{
		Acknowledger: ack,
		DeliveryTag:  1,
		MessageId:    "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Body:         []byte(body),
	}
}

func newHandler(h HandlerFunc[Message], retryCount uint32, faults FaultPublisher[Message]) handler[Message] {
	return handler[Message]{
		serializer: serializer.JSON[Message]{},
		handler:    h,
		faults:     faults,
		logger:     amqp.EmptyLogger{},
		retryCount: retryCount,
	}
}

func TestHandlerAck(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	// Arrange
	ack := &fakeAcknowledger{}
	var received Message
	h := newHandler(func(_ context.Context, msg Message) error {
		received = msg
		return nil
	}, 0, nil)

	// Act
	err := h.Handle(context.Background(), newDelivery(ack, `{"name":"test"}`))

	// Assert
	assert.NoError(err)
	assert.Equal(Message{Name: "test"}, received)
	assert.Equal([]settlement{{action: "ack"}}, ack.settled)
}

func TestHandlerMalformedBody(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ack := &fakeAcknowledger{}
	faults := &faultRecorder{}
	called := false
	h := newHandler(func(context.Context, Message) error {
		called = true
		return nil
	}, 3, faults)

	err := h.Handle(context.Background(), newDelivery(ack, `{"name":false}`))

	assert.Error(err)
	assert.False(called)
	assert.Equal([]settlement{{action: "reject"}}, ack.settled)
	assert.Empty(faults.faults)
}

func TestHandlerFailurePublishesFault(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	// Arrange
	ack := &fakeAcknowledger{}
	faults := &faultRecorder{}
	handlerErr := errors.New("out of stock")
	h := newHandler(func(context.Context, Message) error {
		return handlerErr
	}, 0, faults)

	// Act
	err := h.Handle(context.Background(), newDelivery(ack, `{"name":"test"}`))

	// Assert
	assert.ErrorIs(err, handlerErr)
	assert.Equal([]settlement{{action: "reject"}}, ack.settled)
	assert.Len(faults.faults, 1)

	fault := faults.faults[0]
	assert.Equal(Message{Name: "test"}, fault.GetMessage())
	assert.Equal(uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427"), *fault.GetFaultedMessageID())
	assert.Equal("out of stock", fault.GetExceptions()[0].GetMessage())
	assert.Equal([]string{contracts.MessageType[Message]()}, fault.GetFaultMessageTypes())
}

func TestHandlerRetry(t *testing.T) {
	t.Parallel()

	failing := func(context.Context, Message) error {
		return errors.New("temporary")
	}

	tests := []struct {
		name        string
		handler     HandlerFunc[Message]
		headers     amqp091.Table
		redelivered bool
		retryCount  uint32
		expected    settlement
		faulted     bool
	}{
		{
			name:       "first delivery is requeued",
			handler:    failing,
			retryCount: 2,
			expected:   settlement{action: "nack", requeue: true},
		},
		{
			name:        "redelivered classic queue",
			handler:     failing,
			redelivered: true,
			retryCount:  2,
			expected:    settlement{action: "nack", requeue: true},
		},
		{
			name:       "quorum delivery count below limit",
			handler:    failing,
			headers:    amqp091.Table{"x-delivery-count": int64(1)},
			retryCount: 2,
			expected:   settlement{action: "nack", requeue: true},
		},
		{
			name:       "quorum delivery count exhausted",
			handler:    failing,
			headers:    amqp091.Table{"x-delivery-count": int64(2)},
			retryCount: 2,
			expected:   settlement{action: "reject"},
			faulted:    true,
		},
		{
			name: "no retry",
			handler: func(context.Context, Message) error {
				return ErrNoRetry
			},
			retryCount: 5,
			expected:   settlement{action: "reject"},
			faulted:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert := require.New(t)

			ack := &fakeAcknowledger{}
			faults := &faultRecorder{}
			delivery := newDelivery(ack, `{"name":"retry"}`)
			delivery.Headers = tt.headers
			delivery.Redelivered = tt.redelivered

			err := newHandler(tt.handler, tt.retryCount, faults).Handle(context.Background(), delivery)

			assert.Error(err)
			assert.Equal([]settlement{tt.expected}, ack.settled)
			assert.Equal(tt.faulted, len(faults.faults) == 1)
		})
	}
}

func TestHandlerFaultPublishFailure(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ack := &fakeAcknowledger{}
	faults := &faultRecorder{err: errors.New("exchange gone")}
	h := newHandler(func(context.Context, Message) error {
		return ErrNoRetry
	}, 0, faults)

	err := h.Handle(context.Background(), newDelivery(ack, `{"name":"test"}`))

	assert.ErrorIs(err, ErrNoRetry)
	assert.Len(faults.faults, 1)
	assert.Equal([]settlement{{action: "reject"}}, ack.settled)
}

func TestHandlerFaultWithoutMessageID(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ack := &fakeAcknowledger{}
	faults := &faultRecorder{}
	delivery := newDelivery(ack, `{"name":"test"}`)
	delivery.MessageId = "not-a-uuid"

	_ = newHandler(func(context.Context, Message) error {
		return ErrNoRetry
	}, 0, faults).Handle(context.Background(), delivery)

	assert.Len(faults.faults, 1)
	assert.Nil(faults.faults[0].GetFaultedMessageID())
}

func TestRawHandlerFunc(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	ack := &fakeAcknowledger{}
	h := RawHandlerFunc(func(_ context.Context, d *amqp091.Delivery) error {
		return d.Ack(false)
	})

	assert.NoError(h.Handle(context.Background(), newDelivery(ack, `{}`)))
	assert.Equal([]settlement{{action: "ack"}}, ack.settled)
}
