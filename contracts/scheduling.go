package contracts

import (
	"time"

	"github.com/google/uuid"
)

type (
	ScheduleHeader interface {
		GetCorrelationID() uuid.UUID
		GetScheduledTime() time.Time
		GetPayloadType() []string
		GetDestination() string
	}

	// BaseScheduleMessage asks a scheduler to deliver an untyped payload
	// to Destination at ScheduledTime.
	BaseScheduleMessage interface {
		ScheduleHeader
		GetPayload() any
	}

	ScheduleMessage[T any] interface {
		ScheduleHeader
		GetPayload() T
	}

	ScheduleFields struct {
		ScheduledTime time.Time `json:"scheduledTime"`
		Destination   string    `json:"destination"`
		PayloadType   []string  `json:"payloadType"`
		CorrelationID uuid.UUID `json:"correlationId"`
	}

	BaseScheduleMessageCommand struct {
		Payload any `json:"payload"`
		ScheduleFields
	}

	ScheduleMessageCommand[T any] struct {
		Payload T `json:"payload"`
		ScheduleFields
	}
)

// NewScheduleMessageCommand schedules payload for delivery to destination.
func NewScheduleMessageCommand[T any](scheduledTime time.Time, destination string, payload T) *ScheduleMessageCommand[T] {
	return &ScheduleMessageCommand[T]{
		ScheduleFields: ScheduleFields{
			CorrelationID: uuid.New(),
			ScheduledTime: scheduledTime.UTC(),
			Destination:   destination,
			PayloadType:   []string{MessageType[T]()},
		},
		Payload: payload,
	}
}

func (f *ScheduleFields) GetCorrelationID() uuid.UUID { return f.CorrelationID }
func (f *ScheduleFields) GetScheduledTime() time.Time { return f.ScheduledTime }
func (f *ScheduleFields) GetPayloadType() []string    { return f.PayloadType }
func (f *ScheduleFields) GetDestination() string      { return f.Destination }

func (c *BaseScheduleMessageCommand) GetPayload() any { return c.Payload }

func (c *ScheduleMessageCommand[T]) GetPayload() T { return c.Payload }
