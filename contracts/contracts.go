// Package contracts declares the message contracts exchanged on the bus and
// the concrete types that carry them on the wire.
//
// Contracts are interfaces with no state of their own. Each one is paired
// with exactly one concrete struct in the table returned by Mappings; the
// typemap package turns that table into converters.
package contracts

import (
	"reflect"

	"github.com/nano-interactive/go-amqp-contracts/typemap"
)

var (
	// Default holds the fixed table without any generic bindings.
	Default = typemap.MustNew(Mappings()...)

	DefaultFactory = typemap.NewFactory(Default)
)

// Mappings returns the contract table.
func Mappings() []typemap.Mapping {
	return []typemap.Mapping{
		typemap.Map[BaseFault, BaseFaultEvent](),
		typemap.Map[ReceiveFault, ReceiveFaultEvent](),
		typemap.Map[ExceptionInfo, FaultExceptionInfo](),
		typemap.Map[HostInfo, BusHostInfo](),
		typemap.Map[BaseScheduleMessage, BaseScheduleMessageCommand](),
		typemap.Map[MessageEnvelope, JSONMessageEnvelope](),
		typemap.Map[RoutingSlip, RoutingSlipRecord](),
		typemap.Map[Activity, ActivityRecord](),
		typemap.Map[ActivityLog, ActivityLogRecord](),
		typemap.Map[CompensateLog, CompensateLogRecord](),
		typemap.Map[ActivityException, ActivityExceptionRecord](),
		typemap.Map[Subscription, SubscriptionRecord](),
		typemap.Map[RoutingSlipCompleted, RoutingSlipCompletedMessage](),
		typemap.Map[RoutingSlipFaulted, RoutingSlipFaultedMessage](),
		typemap.Map[RoutingSlipActivityCompleted, RoutingSlipActivityCompletedMessage](),
		typemap.Map[RoutingSlipActivityFaulted, RoutingSlipActivityFaultedMessage](),
		typemap.Map[RoutingSlipActivityCompensated, RoutingSlipActivityCompensatedMessage](),
		typemap.Map[RoutingSlipActivityCompensationFailed, RoutingSlipActivityCompensationFailedMessage](),
		typemap.Map[RoutingSlipTerminated, RoutingSlipTerminatedMessage](),
		typemap.Map[RoutingSlipRevised, RoutingSlipRevisedMessage](),

		typemap.Open[Fault[any], FaultEvent[any]](),
		typemap.Open[ScheduleMessage[any], ScheduleMessageCommand[any]](),
	}
}

// Bindings returns the closed pairs of the generic contracts for message
// type T. Every message type that can fault or be scheduled needs them in
// its registry.
func Bindings[T any]() []typemap.Mapping {
	return []typemap.Mapping{
		typemap.Bind[Fault[T], FaultEvent[T]](),
		typemap.Bind[ScheduleMessage[T], ScheduleMessageCommand[T]](),
	}
}

// NewRegistry builds a registry from the contract table plus extra rows,
// usually the Bindings of the application's message types.
func NewRegistry(extra ...typemap.Mapping) (*typemap.Registry, error) {
	mappings := Mappings()
	mappings = append(mappings, extra...)

	return typemap.New(mappings...)
}

// MessageType returns the URN message type of T, e.g.
// "urn:message:github.com/acme/orders:OrderPlaced".
func MessageType[T any]() string {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if rt.Name() == "" || rt.PkgPath() == "" {
		return "urn:message:" + rt.String()
	}

	return "urn:message:" + rt.PkgPath() + ":" + rt.Name()
}

func asContracts[I any, C any](items []C) []I {
	if items == nil {
		return nil
	}

	out := make([]I, len(items))
	for i := range items {
		out[i] = any(&items[i]).(I)
	}

	return out
}
