package serializer

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nano-interactive/go-amqp-contracts/typemap"
)

// Converters caches the converters a factory creates, one per type key.
// Concurrent requests for a type that is not cached yet share a single
// CreateConverter call. Failures are not cached.
type Converters struct {
	factory *typemap.Factory
	opts    typemap.Options
	group   singleflight.Group
	cache   sync.Map
}

func NewConverters(factory *typemap.Factory, opts typemap.Options) *Converters {
	return &Converters{factory: factory, opts: opts}
}

func (c *Converters) Factory() *typemap.Factory {
	return c.factory
}

// Get returns the cached converter for t, creating it on first use.
func (c *Converters) Get(t typemap.Type) (typemap.Converter, error) {
	key := t.Key()

	if conv, ok := c.cache.Load(key); ok {
		return conv.(typemap.Converter), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if conv, ok := c.cache.Load(key); ok {
			return conv, nil
		}

		conv, err := c.factory.CreateConverter(t, c.opts)
		if err != nil {
			return nil, err
		}

		c.cache.Store(key, conv)

		return conv, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(typemap.Converter), nil
}

// Len returns the number of cached converters.
func (c *Converters) Len() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}
