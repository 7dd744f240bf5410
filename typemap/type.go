package typemap

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Definition identifies a generic type independent of its type arguments:
// Fault[OrderPlaced] and Fault[OrderCanceled] share one Definition.
type Definition struct {
	PkgPath string
	Name    string
	Kind    reflect.Kind
}

// DefinitionOf returns the generic definition of the representative
// instantiation T. The zero Definition is returned when T is not generic.
func DefinitionOf[T any]() Definition {
	def, _ := definitionOf(reflect.TypeFor[T]())
	return def
}

func definitionOf(rt reflect.Type) (Definition, bool) {
	name := rt.Name()

	i := strings.IndexByte(name, '[')
	if i <= 0 {
		return Definition{}, false
	}

	return Definition{PkgPath: rt.PkgPath(), Name: name[:i], Kind: rt.Kind()}, true
}

func (d Definition) IsZero() bool {
	return d.Name == ""
}

func (d Definition) String() string {
	if d.PkgPath == "" {
		return d.Name
	}

	return d.PkgPath + "." + d.Name
}

// Open returns the unbound definition itself, the equivalent of Fault<>.
func (d Definition) Open() Type {
	return Type{def: d, generic: true, definition: true, args: []Type{Param("T")}}
}

// Bind instantiates the definition with an arbitrary argument list. The
// result is not validated: zero, several or unresolved arguments are
// representable so the factory can reject them.
func (d Definition) Bind(args ...Type) Type {
	return Type{def: d, generic: true, args: slices.Clone(args)}
}

// Type describes a type requested from the registry. It is either a closed
// Go type, an instantiation of a generic definition, an unbound definition,
// or an unresolved type parameter.
type Type struct {
	rt         reflect.Type
	name       string
	def        Definition
	args       []Type
	generic    bool
	definition bool
	param      bool
}

// Of describes a closed Go type. Generic instantiations have their
// definition and type arguments recovered from the reflected name.
func Of(rt reflect.Type) Type {
	t := Type{rt: rt}
	if rt == nil {
		return t
	}

	if def, ok := definitionOf(rt); ok {
		t.def = def
		t.generic = true
		t.args = parseArgs(rt.Name()[len(def.Name):])
	}

	return t
}

func TypeOf[T any]() Type {
	return Of(reflect.TypeFor[T]())
}

// Named describes a type known only by its key, such as a type argument
// given on a command line.
func Named(key string) Type {
	return Type{name: key}
}

// Param describes an unresolved generic parameter.
func Param(name string) Type {
	return Type{name: name, param: true}
}

// Reflect returns the Go type, or nil for definitions, parameters and
// arguments recovered from a reflected name.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

func (t Type) IsInterface() bool {
	switch {
	case t.rt != nil:
		return t.rt.Kind() == reflect.Interface
	case t.generic:
		return t.def.Kind == reflect.Interface
	default:
		return false
	}
}

func (t Type) IsGeneric() bool {
	return t.generic
}

func (t Type) IsDefinition() bool {
	return t.definition
}

func (t Type) IsParam() bool {
	return t.param
}

func (t Type) Definition() (Definition, bool) {
	return t.def, t.generic
}

func (t Type) Args() []Type {
	return slices.Clone(t.args)
}

// Key is the identity the registry indexes by. Named types are qualified
// with their full package path, the same form reflect uses for type
// arguments.
func (t Type) Key() string {
	switch {
	case t.rt != nil:
		return qualifiedName(t.rt)
	case t.param || !t.generic:
		return t.name
	}

	var b strings.Builder
	b.WriteString(t.def.String())
	b.WriteByte('[')
	for i, arg := range t.args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(arg.Key())
	}
	b.WriteByte(']')

	return b.String()
}

func (t Type) String() string {
	if t.rt != nil {
		return t.rt.String()
	}

	return t.Key()
}

// qualifiedName formats rt the way the compiler names type arguments of
// generic instantiations, so a type built with Definition.Bind keys the same
// as the reflected instantiation.
func qualifiedName(rt reflect.Type) string {
	if name := rt.Name(); name != "" {
		if rt.PkgPath() == "" {
			return name
		}

		return rt.PkgPath() + "." + name
	}

	switch rt.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(rt.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(rt.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", rt.Len(), qualifiedName(rt.Elem()))
	case reflect.Map:
		return "map[" + qualifiedName(rt.Key()) + "]" + qualifiedName(rt.Elem())
	case reflect.Chan:
		return chanName(rt)
	case reflect.Func:
		return "func" + signature(rt)
	case reflect.Struct:
		return structName(rt)
	case reflect.Interface:
		return interfaceName(rt)
	default:
		return rt.String()
	}
}

func chanName(rt reflect.Type) string {
	elem := qualifiedName(rt.Elem())

	switch rt.ChanDir() {
	case reflect.RecvDir:
		return "<-chan " + elem
	case reflect.SendDir:
		return "chan<- " + elem
	}

	if rt.Elem().Kind() == reflect.Chan && rt.Elem().ChanDir() == reflect.RecvDir {
		return "chan (" + elem + ")"
	}

	return "chan " + elem
}

// signature formats a func type without the func keyword.
func signature(rt reflect.Type) string {
	var b strings.Builder

	b.WriteByte('(')
	for i := 0; i < rt.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}

		if rt.IsVariadic() && i == rt.NumIn()-1 {
			b.WriteString("..." + qualifiedName(rt.In(i).Elem()))
			continue
		}

		b.WriteString(qualifiedName(rt.In(i)))
	}
	b.WriteByte(')')

	switch rt.NumOut() {
	case 0:
	case 1:
		b.WriteString(" " + qualifiedName(rt.Out(0)))
	default:
		b.WriteString(" (")
		for i := 0; i < rt.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualifiedName(rt.Out(i)))
		}
		b.WriteByte(')')
	}

	return b.String()
}

func structName(rt reflect.Type) string {
	if rt.NumField() == 0 {
		return "struct {}"
	}

	var b strings.Builder

	b.WriteString("struct {")
	for i := 0; i < rt.NumField(); i++ {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteByte(' ')

		f := rt.Field(i)
		if !f.Anonymous {
			b.WriteString(f.Name + " ")
		}
		b.WriteString(qualifiedName(f.Type))

		if f.Tag != "" {
			b.WriteString(" " + strconv.Quote(string(f.Tag)))
		}
	}
	b.WriteString(" }")

	return b.String()
}

func interfaceName(rt reflect.Type) string {
	if rt.NumMethod() == 0 {
		return "interface {}"
	}

	var b strings.Builder

	b.WriteString("interface {")
	for i := 0; i < rt.NumMethod(); i++ {
		if i > 0 {
			b.WriteByte(';')
		}

		m := rt.Method(i)
		b.WriteString(" " + m.Name + signature(m.Type))
	}
	b.WriteString(" }")

	return b.String()
}

// parseArgs splits the bracketed argument list of a reflected generic name,
// e.g. "[pkg.A,map[string]int]", at its top-level commas.
func parseArgs(list string) []Type {
	if len(list) < 2 || list[0] != '[' || list[len(list)-1] != ']' {
		return nil
	}

	list = list[1 : len(list)-1]
	if list == "" {
		return []Type{}
	}

	args := make([]Type, 0, 1)
	depth, start := 0, 0

	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, Type{name: strings.TrimSpace(list[start:i])})
				start = i + 1
			}
		}
	}

	return append(args, Type{name: strings.TrimSpace(list[start:])})
}
