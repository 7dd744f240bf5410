package contracts

import (
	"time"

	"github.com/google/uuid"
)

type (
	RoutingSlipEvent interface {
		GetTrackingNumber() uuid.UUID
		GetTimestamp() time.Time
		GetDuration() time.Duration
		GetVariables() map[string]any
	}

	ActivityEvent interface {
		RoutingSlipEvent
		GetExecutionID() uuid.UUID
		GetActivityName() string
		GetHost() HostInfo
	}

	RoutingSlipCompleted interface {
		RoutingSlipEvent
	}

	RoutingSlipFaulted interface {
		RoutingSlipEvent
		GetActivityExceptions() []ActivityException
	}

	RoutingSlipTerminated interface {
		RoutingSlipEvent
		GetHost() HostInfo
		GetDiscardedItinerary() []Activity
	}

	RoutingSlipRevised interface {
		RoutingSlipEvent
		GetExecutionID() uuid.UUID
		GetHost() HostInfo
		GetItinerary() []Activity
		GetDiscardedItinerary() []Activity
	}

	RoutingSlipActivityCompleted interface {
		ActivityEvent
		GetArguments() map[string]any
		GetData() map[string]any
	}

	RoutingSlipActivityFaulted interface {
		ActivityEvent
		GetArguments() map[string]any
		GetExceptionInfo() ExceptionInfo
	}

	RoutingSlipActivityCompensated interface {
		ActivityEvent
		GetData() map[string]any
	}

	RoutingSlipActivityCompensationFailed interface {
		ActivityEvent
		GetData() map[string]any
		GetExceptionInfo() ExceptionInfo
	}

	RoutingSlipEventFields struct {
		Timestamp      time.Time      `json:"timestamp"`
		Variables      map[string]any `json:"variables,omitempty"`
		Duration       time.Duration  `json:"duration"`
		TrackingNumber uuid.UUID      `json:"trackingNumber"`
	}

	ActivityEventFields struct {
		ActivityName string      `json:"activityName"`
		Host         BusHostInfo `json:"host"`
		ExecutionID  uuid.UUID   `json:"executionId"`
		RoutingSlipEventFields
	}

	RoutingSlipCompletedMessage struct {
		RoutingSlipEventFields
	}

	RoutingSlipFaultedMessage struct {
		ActivityExceptions []ActivityExceptionRecord `json:"activityExceptions"`
		RoutingSlipEventFields
	}

	RoutingSlipTerminatedMessage struct {
		DiscardedItinerary []ActivityRecord `json:"discardedItinerary"`
		Host               BusHostInfo      `json:"host"`
		RoutingSlipEventFields
	}

	RoutingSlipRevisedMessage struct {
		Itinerary          []ActivityRecord `json:"itinerary"`
		DiscardedItinerary []ActivityRecord `json:"discardedItinerary"`
		Host               BusHostInfo      `json:"host"`
		ExecutionID        uuid.UUID        `json:"executionId"`
		RoutingSlipEventFields
	}

	RoutingSlipActivityCompletedMessage struct {
		Arguments map[string]any `json:"arguments,omitempty"`
		Data      map[string]any `json:"data,omitempty"`
		ActivityEventFields
	}

	RoutingSlipActivityFaultedMessage struct {
		Arguments     map[string]any     `json:"arguments,omitempty"`
		ExceptionInfo FaultExceptionInfo `json:"exceptionInfo"`
		ActivityEventFields
	}

	RoutingSlipActivityCompensatedMessage struct {
		Data map[string]any `json:"data,omitempty"`
		ActivityEventFields
	}

	RoutingSlipActivityCompensationFailedMessage struct {
		Data          map[string]any     `json:"data,omitempty"`
		ExceptionInfo FaultExceptionInfo `json:"exceptionInfo"`
		ActivityEventFields
	}
)

func (f *RoutingSlipEventFields) GetTrackingNumber() uuid.UUID { return f.TrackingNumber }
func (f *RoutingSlipEventFields) GetTimestamp() time.Time      { return f.Timestamp }
func (f *RoutingSlipEventFields) GetDuration() time.Duration   { return f.Duration }
func (f *RoutingSlipEventFields) GetVariables() map[string]any { return f.Variables }

func (f *ActivityEventFields) GetExecutionID() uuid.UUID { return f.ExecutionID }
func (f *ActivityEventFields) GetActivityName() string   { return f.ActivityName }
func (f *ActivityEventFields) GetHost() HostInfo         { return &f.Host }

func (m *RoutingSlipFaultedMessage) GetActivityExceptions() []ActivityException {
	return asContracts[ActivityException](m.ActivityExceptions)
}

func (m *RoutingSlipTerminatedMessage) GetHost() HostInfo { return &m.Host }

func (m *RoutingSlipTerminatedMessage) GetDiscardedItinerary() []Activity {
	return asContracts[Activity](m.DiscardedItinerary)
}

func (m *RoutingSlipRevisedMessage) GetExecutionID() uuid.UUID { return m.ExecutionID }
func (m *RoutingSlipRevisedMessage) GetHost() HostInfo         { return &m.Host }

func (m *RoutingSlipRevisedMessage) GetItinerary() []Activity {
	return asContracts[Activity](m.Itinerary)
}

func (m *RoutingSlipRevisedMessage) GetDiscardedItinerary() []Activity {
	return asContracts[Activity](m.DiscardedItinerary)
}

func (m *RoutingSlipActivityCompletedMessage) GetArguments() map[string]any { return m.Arguments }
func (m *RoutingSlipActivityCompletedMessage) GetData() map[string]any      { return m.Data }

func (m *RoutingSlipActivityFaultedMessage) GetArguments() map[string]any    { return m.Arguments }
func (m *RoutingSlipActivityFaultedMessage) GetExceptionInfo() ExceptionInfo { return &m.ExceptionInfo }

func (m *RoutingSlipActivityCompensatedMessage) GetData() map[string]any { return m.Data }

func (m *RoutingSlipActivityCompensationFailedMessage) GetData() map[string]any { return m.Data }

func (m *RoutingSlipActivityCompensationFailedMessage) GetExceptionInfo() ExceptionInfo {
	return &m.ExceptionInfo
}
