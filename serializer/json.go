package serializer

import "github.com/nano-interactive/go-amqp-contracts/codec"

var jsonCodec = codec.JSON()

type JSON[T any] struct{}

func (j JSON[T]) Marshal(v T) ([]byte, error) {
	data, err := jsonCodec.Marshal(v)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (j JSON[T]) Unmarshal(data []byte) (T, error) {
	var value T

	if err := jsonCodec.Unmarshal(data, &value); err != nil {
		return value, err
	}

	return value, nil
}

func (j JSON[T]) GetContentType() string {
	return codec.ContentTypeJSON
}
