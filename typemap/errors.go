package typemap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnsupportedType   = errors.New("unsupported type for serialization")
	ErrDuplicateContract = errors.New("contract is already mapped")
	ErrNotInterface      = errors.New("contract must be an interface")
	ErrNotStruct         = errors.New("concrete type must be a struct")
	ErrNotImplemented    = errors.New("concrete type does not implement the contract")
	ErrNotGeneric        = errors.New("open mapping requires generic types")
	ErrArity             = errors.New("generic mapping requires exactly one type argument")
	ErrUnpaired          = errors.New("no open mapping for the generic definition")
	ErrMismatch          = errors.New("binding does not match its open mapping")
)

// Reason tells why a type could not be resolved.
type Reason uint8

const (
	ReasonNotFound Reason = iota
	ReasonArity
	ReasonOpenArgument
	ReasonUnbound
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "no mapping"
	case ReasonArity:
		return "type argument count is not one"
	case ReasonOpenArgument:
		return "type argument is not resolved"
	case ReasonUnbound:
		return "no binding for the type argument"
	default:
		return "unknown"
	}
}

type (
	// UnsupportedTypeError is returned by CreateConverter whenever a type
	// cannot be resolved. The mapping table is static, so it is never
	// worth retrying.
	UnsupportedTypeError struct {
		Type   Type
		Reason Reason
	}

	MappingError struct {
		Inner    error
		Contract string
	}

	ValueTypeError struct {
		Value    reflect.Type
		Concrete reflect.Type
	}
)

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type for serialization %s: %s", e.Type, e.Reason)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("invalid mapping for %s: %v", e.Contract, e.Inner)
}

func (e *MappingError) Unwrap() error {
	return e.Inner
}

func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("value of type %v does not conform to %v", e.Value, e.Concrete)
}
