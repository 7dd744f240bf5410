package publisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nano-interactive/go-amqp-contracts/connection"
	"github.com/nano-interactive/go-amqp-contracts/contracts"
	"github.com/nano-interactive/go-amqp-contracts/publisher"
	"github.com/nano-interactive/go-amqp-contracts/serializer"
	amqp_testing "github.com/nano-interactive/go-amqp-contracts/testing"
	"github.com/nano-interactive/go-amqp-contracts/typemap"
)

type Msg struct {
	Name string `json:"name"`
}

type MockSerializer struct {
	mock.Mock
}

func (m *MockSerializer) Marshal(msg Msg) ([]byte, error) {
	args := m.Called(msg)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSerializer) Unmarshal(data []byte) (Msg, error) {
	args := m.Called(data)
	return args.Get(0).(Msg), args.Error(1)
}

func (m *MockSerializer) GetContentType() string {
	return m.Called().String(0)
}

func TestPublisherNew(t *testing.T) {
	t.Parallel()

	t.Run("ExchangeNameRequired", func(t *testing.T) {
		t.Parallel()

		pub, err := publisher.New[Msg](context.TODO(), connection.DefaultConfig, "")

		require.ErrorIs(t, err, publisher.ErrExchangeNameRequired)
		require.Nil(t, pub)
	})

	t.Run("ConnectionFailed", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		t.Cleanup(cancel)

		pub, err := publisher.New[Msg](
			ctx,
			connection.Config{
				Host:           "localhost",
				Port:           1234,
				ReconnectRetry: 2,
			},
			"test_exchange",
		)

		assert.Error(err)
		assert.Nil(pub)
	})

	t.Run("Basic", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange", "test_queue")

		pub, err := publisher.New[Msg](context.TODO(), connection.DefaultConfig, mappings.Exchange("test_exchange"))

		assert.NoError(err)
		assert.NotNil(pub)
		assert.True(pub.Ready())
		assert.NoError(pub.Close())
	})

	t.Run("WithOptions", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange", "test_queue")

		pub, err := publisher.New[Msg](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange"),
			publisher.WithSerializer[Msg](serializer.JSON[Msg]{}),
			publisher.WithExchangeDeclare[Msg](publisher.ExchangeDeclare{Type: publisher.ExchangeTypeFanout, Durable: true}),
		)

		assert.NoError(err)
		assert.NotNil(pub)
		assert.Equal(mappings.Exchange("test_exchange"), pub.Exchange())
		assert.NoError(pub.Close())
	})
}

func TestPublisherPublish(t *testing.T) {
	t.Parallel()

	t.Run("Basic", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_basic", "test_queue_basic")

		pub, err := publisher.New[Msg](context.TODO(), connection.DefaultConfig, mappings.Exchange("test_exchange_basic"))
		assert.NoError(err)
		assert.NotNil(pub)

		assert.NoError(pub.Publish(context.Background(), Msg{Name: "test"}))
		assert.NoError(pub.Close())

		deliveries := amqp_testing.ConsumeAMQPDeliveries(t, mappings.Queue("test_queue_basic"), connection.DefaultConfig, 200*time.Millisecond)

		assert.Len(deliveries, 1)
		assert.JSONEq(`{"name":"test"}`, string(deliveries[0].Body))
		assert.Equal("application/json", deliveries[0].ContentType)
		assert.Equal(contracts.MessageType[Msg](), deliveries[0].Type)
		assert.NotEmpty(deliveries[0].MessageId)
	})

	t.Run("Contract", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_contract", "test_queue_contract")

		ser, err := serializer.NewContract[contracts.HostInfo](
			serializer.NewConverters(contracts.DefaultFactory, typemap.Options{}),
		)
		assert.NoError(err)

		pub, err := publisher.New[contracts.HostInfo](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange_contract"),
			publisher.WithSerializer[contracts.HostInfo](ser),
		)
		assert.NoError(err)

		assert.NoError(pub.Publish(context.Background(), contracts.NewBusHostInfo()))
		assert.NoError(pub.Close())

		messages := amqp_testing.ConsumeAMQPMessages[contracts.BusHostInfo](
			t,
			mappings.Queue("test_queue_contract"),
			connection.DefaultConfig,
			200*time.Millisecond,
		)

		assert.Len(messages, 1)
		assert.Equal(contracts.NewBusHostInfo().ProcessID, messages[0].ProcessID)
	})

	t.Run("WithSerializer", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_serializer", "test_queue_serializer")

		mockSerializer := &MockSerializer{}

		pub, err := publisher.New[Msg](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange_serializer"),
			publisher.WithSerializer[Msg](mockSerializer),
		)
		assert.NoError(err)
		assert.NotNil(pub)

		mockSerializer.On("Marshal", Msg{Name: "test"}).
			Once().
			Return([]byte("\"test\""), nil)

		mockSerializer.On("GetContentType").
			Once().
			Return("application/json")

		assert.NoError(pub.Publish(context.Background(), Msg{Name: "test"}))
		assert.NoError(pub.Close())

		messages := amqp_testing.ConsumeAMQPMessages[string](
			t,
			mappings.Queue("test_queue_serializer"),
			connection.DefaultConfig,
			200*time.Millisecond,
		)

		assert.Len(messages, 1)
		assert.Equal("test", messages[0])
		mockSerializer.AssertExpectations(t)
	})

	t.Run("WithSerializerFails", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_serializer_fails", "test_queue_serializer_fails")

		mockSerializer := &MockSerializer{}

		pub, err := publisher.New[Msg](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange_serializer_fails"),
			publisher.WithSerializer[Msg](mockSerializer),
		)
		assert.NoError(err)
		assert.NotNil(pub)

		//nolint:goerr113
		expectedErr := errors.New("failed to serialize")

		mockSerializer.On("Marshal", Msg{Name: "test"}).
			Once().
			Return([]byte{}, expectedErr)

		assert.ErrorIs(pub.Publish(context.Background(), Msg{Name: "test"}), expectedErr)
		assert.NoError(pub.Close())

		messages := amqp_testing.ConsumeAMQPMessages[string](
			t,
			mappings.Queue("test_queue_serializer_fails"),
			connection.DefaultConfig,
			200*time.Millisecond,
		)

		assert.Len(messages, 0)
		mockSerializer.AssertNotCalled(t, "GetContentType")
		mockSerializer.AssertExpectations(t)
	})
}

func TestPublisherClose(t *testing.T) {
	t.Parallel()

	t.Run("Call_To_Publish_After_Close", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_after_close", "test_queue_after_close")

		pub, err := publisher.New[Msg](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange_after_close"),
		)
		assert.NoError(err)
		assert.NotNil(pub)

		assert.NoError(pub.Close())
		assert.False(pub.Ready())
		assert.ErrorIs(pub.Publish(context.Background(), Msg{Name: "test"}), publisher.ErrClosed)
	})

	t.Run("Multiple_Close_Calling", func(t *testing.T) {
		t.Parallel()
		assert := require.New(t)

		mappings := amqp_testing.NewMappings(t).
			AddMapping("test_exchange_multiple_close_call", "test_queue_multiple_close_call")

		pub, err := publisher.New[Msg](
			context.TODO(),
			connection.DefaultConfig,
			mappings.Exchange("test_exchange_multiple_close_call"),
		)
		assert.NoError(err)
		assert.NotNil(pub)

		assert.NoError(pub.Close())
		assert.NoError(pub.Close())
		assert.NoError(pub.Close())
	})
}
