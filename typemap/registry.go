package typemap

import (
	"reflect"
	"slices"
	"strings"

	"github.com/nano-interactive/go-amqp-contracts/codec"
)

type (
	// Mapping is one row of the table a Registry is built from: an exact
	// pair (Map), an open generic pair (Open) or a closed instantiation of
	// an open pair (Bind).
	Mapping interface {
		mapping()
	}

	// Entry pairs a contract with the concrete type carrying its data.
	Entry struct {
		err       error
		construct func(codec.Codec) Converter
		contract  Type
		concrete  Type
		bound     bool
	}

	// OpenEntry pairs two generic definitions of arity one.
	OpenEntry struct {
		err      error
		name     string
		contract Definition
		concrete Definition
	}

	// Resolution is the outcome of a registry lookup. On the open path
	// only the paired definitions are known; Deferred is set and binding
	// the type argument is left to the Factory.
	Resolution struct {
		Entry    Entry
		Open     OpenEntry
		Deferred bool
	}

	openMapping struct {
		bound map[string]Entry
		OpenEntry
	}

	// Registry is immutable once built and safe for concurrent use.
	Registry struct {
		exact map[string]Entry
		open  map[Definition]*openMapping
	}
)

// Map declares that contract I is carried by concrete type C. I must be an
// interface, C a struct, and *C must implement I.
func Map[I any, C any]() Entry {
	return newEntry[I, C](false)
}

// Bind declares the closed pair (D[X], D'[X]) of an open mapping (D, D').
// Go cannot instantiate generic types at runtime, so every argument X the
// application exchanges has to be bound explicitly.
func Bind[I any, C any]() Entry {
	return newEntry[I, C](true)
}

func newEntry[I any, C any](bound bool) Entry {
	e := Entry{
		contract: TypeOf[I](),
		concrete: TypeOf[C](),
		bound:    bound,
		construct: func(c codec.Codec) Converter {
			return NewTypeMapping[I, C](c)
		},
	}

	e.err = checkPair(e.contract.rt, e.concrete.rt)

	return e
}

// Open declares an open mapping from representative instantiations, e.g.
// Open[Fault[any], FaultEvent[any]]().
func Open[I any, C any]() OpenEntry {
	contract, concrete := TypeOf[I](), TypeOf[C]()

	e := OpenEntry{name: contract.Key(), contract: contract.def, concrete: concrete.def}

	switch {
	case !contract.generic || !concrete.generic:
		e.err = ErrNotGeneric
	case len(contract.args) != 1 || len(concrete.args) != 1:
		e.err = ErrArity
	default:
		e.err = checkPair(contract.rt, concrete.rt)
	}

	return e
}

func checkPair(contract, concrete reflect.Type) error {
	if contract.Kind() != reflect.Interface {
		return ErrNotInterface
	}

	if concrete.Kind() != reflect.Struct {
		return ErrNotStruct
	}

	if !reflect.PointerTo(concrete).Implements(contract) {
		return ErrNotImplemented
	}

	return nil
}

func (Entry) mapping()     {}
func (OpenEntry) mapping() {}

func (e Entry) Contract() Type {
	return e.contract
}

func (e Entry) Concrete() Type {
	return e.concrete
}

// Converter builds a new converter for the pair.
func (e Entry) Converter(opts Options) Converter {
	return e.construct(opts.codec())
}

// label names the contract in errors. The definition is zero when the
// representative type is not generic.
func (e OpenEntry) label() string {
	if e.contract.IsZero() {
		return e.name
	}

	return e.contract.String()
}

func (e OpenEntry) Contract() Definition {
	return e.contract
}

func (e OpenEntry) Concrete() Definition {
	return e.concrete
}

// New builds a registry from a fixed table. Open pairs are registered
// before bindings, so the order of the table does not matter.
func New(mappings ...Mapping) (*Registry, error) {
	r := &Registry{
		exact: make(map[string]Entry, len(mappings)),
		open:  make(map[Definition]*openMapping),
	}

	bindings := make([]Entry, 0)

	for _, m := range mappings {
		switch m := m.(type) {
		case Entry:
			if m.bound {
				bindings = append(bindings, m)
				continue
			}

			if err := r.addExact(m); err != nil {
				return nil, err
			}
		case OpenEntry:
			if err := r.addOpen(m); err != nil {
				return nil, err
			}
		}
	}

	for _, b := range bindings {
		if err := r.addBinding(b); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// MustNew is like New but panics on an invalid table. Tables are
// hand-authored and built during init, where a bad row is a programming
// error.
func MustNew(mappings ...Mapping) *Registry {
	r, err := New(mappings...)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Registry) addExact(e Entry) error {
	key := e.contract.Key()

	if e.err != nil {
		return &MappingError{Contract: key, Inner: e.err}
	}

	if _, ok := r.exact[key]; ok {
		return &MappingError{Contract: key, Inner: ErrDuplicateContract}
	}

	r.exact[key] = e

	return nil
}

func (r *Registry) addOpen(e OpenEntry) error {
	if e.err != nil {
		return &MappingError{Contract: e.label(), Inner: e.err}
	}

	if _, ok := r.open[e.contract]; ok {
		return &MappingError{Contract: e.label(), Inner: ErrDuplicateContract}
	}

	r.open[e.contract] = &openMapping{OpenEntry: e, bound: make(map[string]Entry)}

	return nil
}

func (r *Registry) addBinding(e Entry) error {
	key := e.contract.Key()

	if e.err != nil {
		return &MappingError{Contract: key, Inner: e.err}
	}

	def, ok := e.contract.Definition()
	if !ok {
		return &MappingError{Contract: key, Inner: ErrNotGeneric}
	}

	pair, ok := r.open[def]
	if !ok {
		return &MappingError{Contract: key, Inner: ErrUnpaired}
	}

	if len(e.contract.args) != 1 || len(e.concrete.args) != 1 {
		return &MappingError{Contract: key, Inner: ErrArity}
	}

	if concreteDef, _ := e.concrete.Definition(); concreteDef != pair.concrete ||
		e.contract.args[0].Key() != e.concrete.args[0].Key() {
		return &MappingError{Contract: key, Inner: ErrMismatch}
	}

	if _, ok = pair.bound[key]; ok {
		return &MappingError{Contract: key, Inner: ErrDuplicateContract}
	}

	pair.bound[key] = e

	return nil
}

// CanResolve reports whether Resolve would find t. An unbound definition
// never resolves, although Factory.CanConvert accepts it when its
// definition is mapped.
func (r *Registry) CanResolve(t Type) bool {
	_, ok := r.Resolve(t)
	return ok
}

// Resolve looks t up by identity in the exact map and, for a closed generic
// instantiation, by its definition in the open map.
func (r *Registry) Resolve(t Type) (Resolution, bool) {
	if e, ok := r.exact[t.Key()]; ok {
		return Resolution{Entry: e}, true
	}

	if !t.IsGeneric() || t.IsDefinition() {
		return Resolution{}, false
	}

	def, _ := t.Definition()

	pair, ok := r.open[def]
	if !ok {
		return Resolution{}, false
	}

	return Resolution{Open: pair.OpenEntry, Deferred: true}, true
}

func (r *Registry) isExact(t Type) bool {
	_, ok := r.exact[t.Key()]
	return ok
}

func (r *Registry) isOpen(def Definition) bool {
	_, ok := r.open[def]
	return ok
}

func (r *Registry) binding(def Definition, contract Type) (Entry, bool) {
	pair, ok := r.open[def]
	if !ok {
		return Entry{}, false
	}

	e, ok := pair.bound[contract.Key()]

	return e, ok
}

// Entries returns the exact pairs ordered by contract.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.exact))
	for _, e := range r.exact {
		entries = append(entries, e)
	}

	sortEntries(entries)

	return entries
}

// OpenEntries returns the open pairs ordered by contract definition.
func (r *Registry) OpenEntries() []OpenEntry {
	entries := make([]OpenEntry, 0, len(r.open))
	for _, pair := range r.open {
		entries = append(entries, pair.OpenEntry)
	}

	slices.SortFunc(entries, func(a, b OpenEntry) int {
		return strings.Compare(a.contract.String(), b.contract.String())
	})

	return entries
}

// Bindings returns the closed instantiations of open pairs ordered by
// contract.
func (r *Registry) Bindings() []Entry {
	entries := make([]Entry, 0)
	for _, pair := range r.open {
		for _, e := range pair.bound {
			entries = append(entries, e)
		}
	}

	sortEntries(entries)

	return entries
}

func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.contract.Key(), b.contract.Key())
	})
}
