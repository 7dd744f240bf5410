package contracts

import (
	"time"

	"github.com/google/uuid"
)

// RoutingSlipEvents selects the routing slip events a subscription receives.
type RoutingSlipEvents uint32

const (
	EventAll       RoutingSlipEvents = 0
	EventCompleted RoutingSlipEvents = 1 << (iota - 1)
	EventFaulted
	EventCompensationFailed
	EventTerminated
	EventRevised
	EventActivityCompleted
	EventActivityFaulted
	EventActivityCompensated
	EventActivityCompensationFailed
	EventSupplemental
)

// RoutingSlipEventContents selects what a subscribed event carries.
type RoutingSlipEventContents uint32

const (
	ContentsAll  RoutingSlipEventContents = 0
	ContentsNone RoutingSlipEventContents = 1 << (iota - 1)
	ContentsVariables
	ContentsArguments
	ContentsData
	ContentsItinerary
)

type (
	RoutingSlip interface {
		GetTrackingNumber() uuid.UUID
		GetCreateTimestamp() time.Time
		GetItinerary() []Activity
		GetActivityLogs() []ActivityLog
		GetCompensateLogs() []CompensateLog
		GetVariables() map[string]any
		GetActivityExceptions() []ActivityException
		GetSubscriptions() []Subscription
	}

	Activity interface {
		GetName() string
		GetAddress() string
		GetArguments() map[string]any
	}

	ActivityLog interface {
		GetExecutionID() uuid.UUID
		GetName() string
		GetTimestamp() time.Time
		GetDuration() time.Duration
		GetHost() HostInfo
	}

	CompensateLog interface {
		GetExecutionID() uuid.UUID
		GetAddress() string
		GetData() map[string]any
	}

	ActivityException interface {
		GetExecutionID() uuid.UUID
		GetTimestamp() time.Time
		GetElapsed() time.Duration
		GetName() string
		GetHost() HostInfo
		GetExceptionInfo() ExceptionInfo
	}

	Subscription interface {
		GetAddress() string
		GetEvents() RoutingSlipEvents
		GetInclude() RoutingSlipEventContents
		GetActivityName() string
		GetMessage() MessageEnvelope
	}

	RoutingSlipRecord struct {
		CreateTimestamp    time.Time                 `json:"createTimestamp"`
		Variables          map[string]any            `json:"variables,omitempty"`
		Itinerary          []ActivityRecord          `json:"itinerary"`
		ActivityLogs       []ActivityLogRecord       `json:"activityLogs"`
		CompensateLogs     []CompensateLogRecord     `json:"compensateLogs"`
		ActivityExceptions []ActivityExceptionRecord `json:"activityExceptions"`
		Subscriptions      []SubscriptionRecord      `json:"subscriptions"`
		TrackingNumber     uuid.UUID                 `json:"trackingNumber"`
	}

	ActivityRecord struct {
		Arguments map[string]any `json:"arguments,omitempty"`
		Name      string         `json:"name"`
		Address   string         `json:"address"`
	}

	ActivityLogRecord struct {
		Timestamp   time.Time     `json:"timestamp"`
		Name        string        `json:"name"`
		Host        BusHostInfo   `json:"host"`
		Duration    time.Duration `json:"duration"`
		ExecutionID uuid.UUID     `json:"executionId"`
	}

	CompensateLogRecord struct {
		Data        map[string]any `json:"data,omitempty"`
		Address     string         `json:"address"`
		ExecutionID uuid.UUID      `json:"executionId"`
	}

	ActivityExceptionRecord struct {
		Timestamp     time.Time          `json:"timestamp"`
		Name          string             `json:"name"`
		Host          BusHostInfo        `json:"host"`
		ExceptionInfo FaultExceptionInfo `json:"exceptionInfo"`
		Elapsed       time.Duration      `json:"elapsed"`
		ExecutionID   uuid.UUID          `json:"executionId"`
	}

	SubscriptionRecord struct {
		Message      *JSONMessageEnvelope     `json:"message,omitempty"`
		Address      string                   `json:"address"`
		ActivityName string                   `json:"activityName,omitempty"`
		Events       RoutingSlipEvents        `json:"events"`
		Include      RoutingSlipEventContents `json:"include"`
	}
)

func (s *RoutingSlipRecord) GetTrackingNumber() uuid.UUID  { return s.TrackingNumber }
func (s *RoutingSlipRecord) GetCreateTimestamp() time.Time { return s.CreateTimestamp }
func (s *RoutingSlipRecord) GetVariables() map[string]any  { return s.Variables }

func (s *RoutingSlipRecord) GetItinerary() []Activity {
	return asContracts[Activity](s.Itinerary)
}

func (s *RoutingSlipRecord) GetActivityLogs() []ActivityLog {
	return asContracts[ActivityLog](s.ActivityLogs)
}

func (s *RoutingSlipRecord) GetCompensateLogs() []CompensateLog {
	return asContracts[CompensateLog](s.CompensateLogs)
}

func (s *RoutingSlipRecord) GetActivityExceptions() []ActivityException {
	return asContracts[ActivityException](s.ActivityExceptions)
}

func (s *RoutingSlipRecord) GetSubscriptions() []Subscription {
	return asContracts[Subscription](s.Subscriptions)
}

func (a *ActivityRecord) GetName() string              { return a.Name }
func (a *ActivityRecord) GetAddress() string           { return a.Address }
func (a *ActivityRecord) GetArguments() map[string]any { return a.Arguments }

func (l *ActivityLogRecord) GetExecutionID() uuid.UUID  { return l.ExecutionID }
func (l *ActivityLogRecord) GetName() string            { return l.Name }
func (l *ActivityLogRecord) GetTimestamp() time.Time    { return l.Timestamp }
func (l *ActivityLogRecord) GetDuration() time.Duration { return l.Duration }
func (l *ActivityLogRecord) GetHost() HostInfo          { return &l.Host }

func (l *CompensateLogRecord) GetExecutionID() uuid.UUID { return l.ExecutionID }
func (l *CompensateLogRecord) GetAddress() string        { return l.Address }
func (l *CompensateLogRecord) GetData() map[string]any   { return l.Data }

func (e *ActivityExceptionRecord) GetExecutionID() uuid.UUID       { return e.ExecutionID }
func (e *ActivityExceptionRecord) GetTimestamp() time.Time         { return e.Timestamp }
func (e *ActivityExceptionRecord) GetElapsed() time.Duration       { return e.Elapsed }
func (e *ActivityExceptionRecord) GetName() string                 { return e.Name }
func (e *ActivityExceptionRecord) GetHost() HostInfo               { return &e.Host }
func (e *ActivityExceptionRecord) GetExceptionInfo() ExceptionInfo { return &e.ExceptionInfo }

func (s *SubscriptionRecord) GetAddress() string                   { return s.Address }
func (s *SubscriptionRecord) GetEvents() RoutingSlipEvents         { return s.Events }
func (s *SubscriptionRecord) GetInclude() RoutingSlipEventContents { return s.Include }
func (s *SubscriptionRecord) GetActivityName() string              { return s.ActivityName }

func (s *SubscriptionRecord) GetMessage() MessageEnvelope {
	if s.Message == nil {
		return nil
	}

	return s.Message
}
