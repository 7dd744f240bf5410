package serializer

import (
	"reflect"

	"github.com/nano-interactive/go-amqp-contracts/typemap"
)

// Contract serializes the contract interface I through the concrete type the
// registry maps it to.
type Contract[I any] struct {
	converter typemap.Converter
}

// NewContract resolves I through converters. It fails with an
// *typemap.UnsupportedTypeError when I has no mapping.
func NewContract[I any](converters *Converters) (*Contract[I], error) {
	conv, err := converters.Get(typemap.TypeOf[I]())
	if err != nil {
		return nil, err
	}

	return &Contract[I]{converter: conv}, nil
}

func (c *Contract[I]) Marshal(v I) ([]byte, error) {
	return c.converter.Write(v)
}

func (c *Contract[I]) Unmarshal(data []byte) (I, error) {
	var contract I

	value, err := c.converter.Read(data)
	if err != nil {
		return contract, err
	}

	contract, ok := value.(I)
	if !ok {
		return contract, &typemap.ValueTypeError{Value: reflect.TypeOf(value), Concrete: c.converter.Concrete()}
	}

	return contract, nil
}

func (c *Contract[I]) GetContentType() string {
	return c.converter.ContentType()
}

func (c *Contract[I]) Converter() typemap.Converter {
	return c.converter
}
