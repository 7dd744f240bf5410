package codec

import (
	"github.com/fxamacker/cbor/v2"
)

const ContentTypeCBOR = "application/cbor"

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var cborDefault = mustCBOR()

// CBOR returns a deterministic CBOR codec. Times are written as RFC 3339
// strings with nanoseconds so they survive a round trip.
func CBOR() (Codec, error) {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	em, err := opts.EncMode()
	if err != nil {
		return nil, err
	}

	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}

	return cborCodec{enc: em, dec: dm}, nil
}

func mustCBOR() Codec {
	c, err := CBOR()
	if err != nil {
		panic(err)
	}

	return c
}

func (c cborCodec) ContentType() string {
	return ContentTypeCBOR
}

func (c cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
