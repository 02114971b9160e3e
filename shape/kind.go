// Package shape turns interface definitions into introspected shapes: the
// set of properties an interface declares, the dispatch table that routes
// its method calls, and the behavior methods that fall outside the
// accessor conventions.
//
// A Def is the raw material: an interface name plus its method
// signatures. Defs come from reflection (DefOf, DefFor), from descriptor
// documents (the shapefile package) or from literal construction with
// NewDef. Introspect classifies every method, pairs getters with setters
// and produces an immutable Shape; a Registry memoizes that work.
package shape

import "strconv"

// Kind identifies the value category of a type.
type Kind int

const (
	// Invalid is the zero Kind.
	Invalid Kind = iota

	// The eight primitive kinds. Validation is kind-exact: an int is not
	// an int64 and a rune is not an int, mirroring Go's own type system.
	Bool
	Byte
	Int16
	Rune
	Int
	Int64
	Float32
	Float64

	// String is the reference kind for Go strings.
	String
	// Interface marks a nested dynamic interface; Type.Iface names it.
	Interface
	// Opaque carries an arbitrary Go value by reference without
	// interpretation.
	Opaque

	// List is a growable sequence, Array a fixed-size one, Map a
	// string-keyed collection. Type.Elem holds the element type.
	List
	Array
	Map

	// Error is the built-in error interface. It is legal only as a
	// trailing method result.
	Error
)

var kindNames = [...]string{
	"invalid",
	"bool", "byte", "int16", "rune", "int", "int64", "float32", "float64",
	"string", "interface", "opaque",
	"list", "array", "map",
	"error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsPrimitive reports whether k is one of the eight primitive kinds
// backed by a typed array strategy.
func (k Kind) IsPrimitive() bool { return k >= Bool && k <= Float64 }

// IsContainer reports whether k is a collection kind.
func (k Kind) IsContainer() bool { return k == List || k == Array || k == Map }

// IsScalar reports whether k can appear as an element or plain property
// type.
func (k Kind) IsScalar() bool {
	return k.IsPrimitive() || k == String || k == Interface || k == Opaque
}
