package contracts

import (
	"time"

	"github.com/google/uuid"
)

type (
	// BaseFault is published when a message could not be consumed.
	BaseFault interface {
		GetFaultID() uuid.UUID
		GetFaultedMessageID() *uuid.UUID
		GetTimestamp() time.Time
		GetExceptions() []ExceptionInfo
		GetHost() HostInfo
		GetFaultMessageTypes() []string
	}

	// Fault carries the message that failed along with the fault details.
	Fault[T any] interface {
		BaseFault
		GetMessage() T
	}

	// ReceiveFault is published when a message could not be deserialized.
	ReceiveFault interface {
		BaseFault
		GetContentType() string
	}

	BaseFaultEvent struct {
		Timestamp         time.Time            `json:"timestamp"`
		FaultedMessageID  *uuid.UUID           `json:"faultedMessageId,omitempty"`
		Host              BusHostInfo          `json:"host"`
		Exceptions        []FaultExceptionInfo `json:"exceptions"`
		FaultMessageTypes []string             `json:"faultMessageTypes"`
		FaultID           uuid.UUID            `json:"faultId"`
	}

	FaultEvent[T any] struct {
		Message T `json:"message"`
		BaseFaultEvent
	}

	ReceiveFaultEvent struct {
		ContentType string `json:"contentType"`
		BaseFaultEvent
	}
)

func newBaseFaultEvent(messageID *uuid.UUID, err error, messageTypes []string) BaseFaultEvent {
	e := BaseFaultEvent{
		FaultID:           uuid.New(),
		FaultedMessageID:  messageID,
		Timestamp:         time.Now().UTC(),
		Host:              *CurrentHost(),
		FaultMessageTypes: messageTypes,
		Exceptions:        []FaultExceptionInfo{},
	}

	if info := NewFaultExceptionInfo(err); info != nil {
		e.Exceptions = append(e.Exceptions, *info)
	}

	return e
}

// NewFaultEvent builds the fault for message, which failed with err.
func NewFaultEvent[T any](message T, messageID *uuid.UUID, err error) *FaultEvent[T] {
	return &FaultEvent[T]{
		BaseFaultEvent: newBaseFaultEvent(messageID, err, []string{MessageType[T]()}),
		Message:        message,
	}
}

// NewReceiveFaultEvent builds the fault for a body of contentType that
// could not be deserialized.
func NewReceiveFaultEvent(contentType string, messageID *uuid.UUID, err error, messageTypes ...string) *ReceiveFaultEvent {
	return &ReceiveFaultEvent{
		BaseFaultEvent: newBaseFaultEvent(messageID, err, messageTypes),
		ContentType:    contentType,
	}
}

func (e *BaseFaultEvent) GetFaultID() uuid.UUID           { return e.FaultID }
func (e *BaseFaultEvent) GetFaultedMessageID() *uuid.UUID { return e.FaultedMessageID }
func (e *BaseFaultEvent) GetTimestamp() time.Time         { return e.Timestamp }
func (e *BaseFaultEvent) GetHost() HostInfo               { return &e.Host }
func (e *BaseFaultEvent) GetFaultMessageTypes() []string  { return e.FaultMessageTypes }

func (e *BaseFaultEvent) GetExceptions() []ExceptionInfo {
	return asContracts[ExceptionInfo](e.Exceptions)
}

func (e *FaultEvent[T]) GetMessage() T { return e.Message }

func (e *ReceiveFaultEvent) GetContentType() string { return e.ContentType }
