package shape

import (
	"unicode"
	"unicode/utf8"
)

// Method describes one method of an interface definition.
type Method struct {
	Name    string
	Params  []Type
	Results []Type
}

// Def is the raw description of an interface consumed by Introspect.
type Def struct {
	Name    string
	Methods []Method

	// Fixed lists properties whose sequence uses fixed-size array
	// semantics instead of a growable list. Fixedness is declared, not
	// inferred: method signatures use slice types either way.
	Fixed []string
}

// IsZero reports whether d carries no definition.
func (d Def) IsZero() bool { return d.Name == "" && len(d.Methods) == 0 }

// DefBuilder assembles a Def from conventionally named accessor methods,
// saving callers from spelling out every Method by hand.
type DefBuilder struct {
	def Def
}

// NewDef starts a builder for an interface with the given name.
func NewDef(name string) *DefBuilder {
	return &DefBuilder{def: Def{Name: name}}
}

// Accessor declares a readable and writable plain property: Stem() T and
// SetStem(T).
func (b *DefBuilder) Accessor(prop string, t Type) *DefBuilder {
	stem := Capitalize(prop)
	b.def.Methods = append(b.def.Methods,
		Method{Name: stem, Results: []Type{t}},
		Method{Name: "Set" + stem, Params: []Type{t}},
	)
	return b
}

// Getter declares a read-only plain property.
func (b *DefBuilder) Getter(prop string, t Type) *DefBuilder {
	b.def.Methods = append(b.def.Methods, Method{Name: Capitalize(prop), Results: []Type{t}})
	return b
}

// Setter declares a write-only plain property.
func (b *DefBuilder) Setter(prop string, t Type) *DefBuilder {
	b.def.Methods = append(b.def.Methods, Method{Name: "Set" + Capitalize(prop), Params: []Type{t}})
	return b
}

// Indexed declares element access for a sequence property: StemAt(int) T
// and SetStemAt(int, T).
func (b *DefBuilder) Indexed(prop string, elem Type) *DefBuilder {
	stem := Capitalize(prop)
	b.def.Methods = append(b.def.Methods,
		Method{Name: stem + "At", Params: []Type{Of(Int)}, Results: []Type{elem}},
		Method{Name: "Set" + stem + "At", Params: []Type{Of(Int), elem}},
	)
	return b
}

// Keyed declares element access for a mapped property: StemFor(string) T
// and SetStemFor(string, T).
func (b *DefBuilder) Keyed(prop string, elem Type) *DefBuilder {
	stem := Capitalize(prop)
	b.def.Methods = append(b.def.Methods,
		Method{Name: stem + "For", Params: []Type{Of(String)}, Results: []Type{elem}},
		Method{Name: "Set" + stem + "For", Params: []Type{Of(String), elem}},
	)
	return b
}

// List declares a growable sequence property with whole-value accessors.
func (b *DefBuilder) List(prop string, elem Type) *DefBuilder {
	return b.Accessor(prop, ListOf(elem))
}

// FixedArray declares a fixed-size sequence property with whole-value
// accessors and element access.
func (b *DefBuilder) FixedArray(prop string, elem Type) *DefBuilder {
	b.Accessor(prop, ListOf(elem)).Indexed(prop, elem)
	b.def.Fixed = append(b.def.Fixed, prop)
	return b
}

// Mapped declares a string-keyed property with whole-value and element
// accessors.
func (b *DefBuilder) Mapped(prop string, elem Type) *DefBuilder {
	return b.Accessor(prop, MapOf(elem)).Keyed(prop, elem)
}

// Behavior declares a method outside the accessor conventions. Calls to
// it are routed to a delegate.
func (b *DefBuilder) Behavior(name string, params []Type, results []Type) *DefBuilder {
	b.def.Methods = append(b.def.Methods, Method{Name: name, Params: params, Results: results})
	return b
}

// Method appends a literal method.
func (b *DefBuilder) Method(m Method) *DefBuilder {
	b.def.Methods = append(b.def.Methods, m)
	return b
}

// MarkFixed records prop as using fixed-size array semantics.
func (b *DefBuilder) MarkFixed(prop string) *DefBuilder {
	b.def.Fixed = append(b.def.Fixed, prop)
	return b
}

// Build returns the assembled Def.
func (b *DefBuilder) Build() Def { return b.def }

// Capitalize upper-cases the first rune of a property name, yielding the
// method stem it is accessed through.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Decapitalize derives a property name from a method stem. Following the
// convention this system grew out of, a stem whose first two characters
// are both upper case (an initialism such as "URL") is kept as is.
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	r0, n0 := utf8.DecodeRuneInString(s)
	if r1, _ := utf8.DecodeRuneInString(s[n0:]); unicode.IsUpper(r0) && unicode.IsUpper(r1) {
		return s
	}
	return string(unicode.ToLower(r0)) + s[n0:]
}
