package serializer

import "github.com/nano-interactive/go-amqp-contracts/codec"

// CBOR serializes T with the deterministic CBOR codec.
type CBOR[T any] struct {
	codec codec.Codec
}

func NewCBOR[T any]() (CBOR[T], error) {
	c, err := codec.CBOR()
	if err != nil {
		return CBOR[T]{}, err
	}

	return CBOR[T]{codec: c}, nil
}

func (c CBOR[T]) Marshal(v T) ([]byte, error) {
	return c.codec.Marshal(v)
}

func (c CBOR[T]) Unmarshal(data []byte) (T, error) {
	var value T

	if err := c.codec.Unmarshal(data, &value); err != nil {
		return value, err
	}

	return value, nil
}

func (c CBOR[T]) GetContentType() string {
	return codec.ContentTypeCBOR
}
