package codec

import "encoding/json"

const ContentTypeJSON = "application/json"

type jsonCodec struct{}

func JSON() Codec {
	return jsonCodec{}
}

func (jsonCodec) ContentType() string {
	return ContentTypeJSON
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
