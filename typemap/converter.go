package typemap

import (
	"reflect"

	"github.com/nano-interactive/go-amqp-contracts/codec"
)

// Converter reads and writes one contract type through its concrete type.
type Converter interface {
	Contract() reflect.Type
	Concrete() reflect.Type
	ContentType() string
	Read(data []byte) (any, error)
	Write(value any) ([]byte, error)
}

// TypeMapping is the Converter for the pair (I, C). The wire form is the
// field layout of C; I contributes nothing to it.
type TypeMapping[I any, C any] struct {
	codec codec.Codec
}

func NewTypeMapping[I any, C any](c codec.Codec) *TypeMapping[I, C] {
	if c == nil {
		c = codec.JSON()
	}

	return &TypeMapping[I, C]{codec: c}
}

func (m *TypeMapping[I, C]) Contract() reflect.Type {
	return reflect.TypeFor[I]()
}

func (m *TypeMapping[I, C]) Concrete() reflect.Type {
	return reflect.TypeFor[C]()
}

func (m *TypeMapping[I, C]) ContentType() string {
	return m.codec.ContentType()
}

// Decode reads data into a new C and returns it as I.
func (m *TypeMapping[I, C]) Decode(data []byte) (I, error) {
	var contract I

	value := new(C)
	if err := m.codec.Unmarshal(data, value); err != nil {
		return contract, err
	}

	contract, ok := any(value).(I)
	if !ok {
		return contract, &ValueTypeError{Value: reflect.TypeOf(value), Concrete: m.Concrete()}
	}

	return contract, nil
}

func (m *TypeMapping[I, C]) Encode(value I) ([]byte, error) {
	return m.Write(value)
}

func (m *TypeMapping[I, C]) Read(data []byte) (any, error) {
	return m.Decode(data)
}

// Write accepts *C, C, an I holding either, or nil.
func (m *TypeMapping[I, C]) Write(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return m.codec.Marshal(nil)
	case *C:
		return m.codec.Marshal(v)
	case C:
		return m.codec.Marshal(&v)
	default:
		return nil, &ValueTypeError{Value: reflect.TypeOf(value), Concrete: m.Concrete()}
	}
}
