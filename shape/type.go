package shape

import "reflect"

// Type describes a declared property, parameter or result type.
//
// For Kind Interface, Iface names the nested interface and Go optionally
// carries its reflect.Type when the def came from reflection. For Kind
// Opaque, Go carries the concrete type when known; a nil Go means "any
// value". Container kinds populate Elem.
type Type struct {
	Kind  Kind
	Iface string
	Go    reflect.Type
	Elem  *Type
}

// Of returns the Type for a primitive, String or Error kind.
func Of(k Kind) Type { return Type{Kind: k} }

// Iface returns an Interface type referring to name.
func Iface(name string) Type { return Type{Kind: Interface, Iface: name} }

// OpaqueOf returns an Opaque type carrying the given Go type.
func OpaqueOf(t reflect.Type) Type { return Type{Kind: Opaque, Go: t} }

// Any returns the Opaque type that matches any value.
func Any() Type { return Type{Kind: Opaque} }

// ListOf returns a growable sequence of elem.
func ListOf(elem Type) Type { return Type{Kind: List, Elem: &elem} }

// ArrayOf returns a fixed-size sequence of elem.
func ArrayOf(elem Type) Type { return Type{Kind: Array, Elem: &elem} }

// MapOf returns a string-keyed collection of elem.
func MapOf(elem Type) Type { return Type{Kind: Map, Elem: &elem} }

// IsZero reports whether t is the zero Type.
func (t Type) IsZero() bool { return t.Kind == Invalid }

// ElemType returns the element type of a container, or the zero Type.
func (t Type) ElemType() Type {
	if t.Elem == nil {
		return Type{}
	}
	return *t.Elem
}

// Equal reports structural equality. Interface types compare by name;
// Opaque types compare by Go type identity, with a nil Go matching only
// nil.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Interface:
		return t.Iface == o.Iface
	case Opaque:
		return t.Go == o.Go
	case List, Array, Map:
		if (t.Elem == nil) != (o.Elem == nil) {
			return false
		}
		if t.Elem == nil {
			return true
		}
		return t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Interface:
		if t.Iface != "" {
			return t.Iface
		}
		return "interface"
	case Opaque:
		if t.Go != nil {
			return t.Go.String()
		}
		return "any"
	case List:
		return "[]" + t.ElemType().String()
	case Array:
		return "array[" + t.ElemType().String() + "]"
	case Map:
		return "map[string]" + t.ElemType().String()
	default:
		return t.Kind.String()
	}
}
