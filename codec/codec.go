// Package codec holds the byte-level encodings messages travel in.
package codec

// Codec marshals values for one content type.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps content types to codecs.
type Registry struct {
	byType map[string]Codec
}

// NewRegistry returns a registry preloaded with JSON and CBOR.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Codec, 2)}
	r.Register(JSON())
	r.Register(cborDefault)

	return r
}

func (r *Registry) Register(c Codec) {
	r.byType[c.ContentType()] = c
}

// Get returns the codec for contentType, or nil.
func (r *Registry) Get(contentType string) Codec {
	return r.byType[contentType]
}
