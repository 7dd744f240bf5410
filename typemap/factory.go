package typemap

import "github.com/nano-interactive/go-amqp-contracts/codec"

// Options are handed to CreateConverter by the hosting serializer.
type Options struct {
	// Codec defaults to JSON.
	Codec codec.Codec
}

func (o Options) codec() codec.Codec {
	if o.Codec == nil {
		return codec.JSON()
	}

	return o.Codec
}

// Factory builds converters for contract types. It holds no state besides
// the registry; callers that resolve the same type repeatedly should cache
// the converters themselves.
type Factory struct {
	registry *Registry
}

func NewFactory(registry *Registry) *Factory {
	return &Factory{registry: registry}
}

func (f *Factory) Registry() *Registry {
	return f.registry
}

// CanConvert reports whether t is an interface that is either mapped exactly
// or whose generic definition has an open mapping.
func (f *Factory) CanConvert(t Type) bool {
	if !t.IsInterface() {
		return false
	}

	if f.registry.isExact(t) {
		return true
	}

	def, ok := t.Definition()

	return ok && f.registry.isOpen(def)
}

// CreateConverter returns a converter bound to the pair t resolves to, or an
// *UnsupportedTypeError.
func (f *Factory) CreateConverter(t Type, opts Options) (Converter, error) {
	res, ok := f.registry.Resolve(t)
	if !ok {
		if def, generic := t.Definition(); generic && t.IsDefinition() && f.registry.isOpen(def) {
			return nil, &UnsupportedTypeError{Type: t, Reason: ReasonOpenArgument}
		}

		return nil, &UnsupportedTypeError{Type: t, Reason: ReasonNotFound}
	}

	if !res.Deferred {
		return res.Entry.Converter(opts), nil
	}

	args := t.Args()
	if len(args) != 1 {
		return nil, &UnsupportedTypeError{Type: t, Reason: ReasonArity}
	}

	if args[0].IsParam() {
		return nil, &UnsupportedTypeError{Type: t, Reason: ReasonOpenArgument}
	}

	contract := res.Open.Contract().Bind(args[0])
	concrete := res.Open.Concrete().Bind(args[0])

	entry, ok := f.registry.binding(res.Open.Contract(), contract)
	if !ok || entry.Concrete().Key() != concrete.Key() {
		return nil, &UnsupportedTypeError{Type: t, Reason: ReasonUnbound}
	}

	return entry.Converter(opts), nil
}
