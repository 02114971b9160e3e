package shape

import "reflect"

var errType = reflect.TypeOf((*error)(nil)).Elem()

// DefOf builds a Def from a Go interface type. Fixed names sequence
// properties that use fixed-size array semantics; reflection cannot see
// fixedness, so it is declared here.
func DefOf(t reflect.Type, fixed ...string) (Def, error) {
	if t == nil || t.Kind() != reflect.Interface {
		name := "<nil>"
		if t != nil {
			name = t.String()
		}
		return Def{}, &IntrospectionError{Iface: name, Reason: "not an interface type"}
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	d := Def{Name: name, Fixed: fixed}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		mm := Method{Name: m.Name}
		mt := m.Type
		for j := 0; j < mt.NumIn(); j++ {
			mm.Params = append(mm.Params, TypeOf(mt.In(j)))
		}
		for j := 0; j < mt.NumOut(); j++ {
			mm.Results = append(mm.Results, TypeOf(mt.Out(j)))
		}
		d.Methods = append(d.Methods, mm)
	}
	return d, nil
}

// DefFor is the generic form of DefOf.
func DefFor[T any](fixed ...string) (Def, error) {
	return DefOf(reflect.TypeOf((*T)(nil)).Elem(), fixed...)
}

// MustDefFor is DefFor for statically known interfaces; it panics on
// error.
func MustDefFor[T any](fixed ...string) Def {
	d, err := DefFor[T](fixed...)
	if err != nil {
		panic(err)
	}
	return d
}

// TypeOf maps a Go type onto the shape type system. Unrecognized Go
// types map to Opaque; fixed-size Go arrays do too, since fixedness is
// declared through Def.Fixed rather than spelled in signatures.
func TypeOf(t reflect.Type) Type {
	switch t.Kind() {
	case reflect.Bool:
		return Type{Kind: Bool}
	case reflect.Uint8:
		return Type{Kind: Byte}
	case reflect.Int16:
		return Type{Kind: Int16}
	case reflect.Int32:
		return Type{Kind: Rune}
	case reflect.Int:
		return Type{Kind: Int}
	case reflect.Int64:
		return Type{Kind: Int64}
	case reflect.Float32:
		return Type{Kind: Float32}
	case reflect.Float64:
		return Type{Kind: Float64}
	case reflect.String:
		return Type{Kind: String}
	case reflect.Slice:
		elem := TypeOf(t.Elem())
		if !elem.Kind.IsScalar() {
			return Type{Kind: Opaque, Go: t}
		}
		return ListOf(elem)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Type{Kind: Opaque, Go: t}
		}
		elem := TypeOf(t.Elem())
		if !elem.Kind.IsScalar() {
			return Type{Kind: Opaque, Go: t}
		}
		return MapOf(elem)
	case reflect.Interface:
		if t == errType {
			return Type{Kind: Error}
		}
		if t.NumMethod() == 0 {
			return Type{Kind: Opaque}
		}
		name := t.Name()
		if name == "" {
			name = t.String()
		}
		return Type{Kind: Interface, Iface: name, Go: t}
	default:
		return Type{Kind: Opaque, Go: t}
	}
}
