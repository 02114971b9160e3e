package shape

import (
	"fmt"
	"strings"
)

// Reserved method names are identity operations every instance answers
// itself; they are never classified as accessors or behaviors.
var reservedMethods = map[string]struct{}{
	"Equal":  {},
	"Hash":   {},
	"String": {},
}

// IsReservedMethod reports whether name is one of the identity methods.
func IsReservedMethod(name string) bool {
	_, ok := reservedMethods[name]
	return ok
}

// IntrospectionError reports a definition that cannot be turned into a
// shape: contradictory accessor pairings, illegal property types or
// malformed defs.
type IntrospectionError struct {
	Iface  string
	Method string // offending method, when one can be named
	Prop   string // offending property, when one can be named
	Reason string
}

func (e *IntrospectionError) Error() string {
	var b strings.Builder
	b.WriteString("shape: interface ")
	if e.Iface != "" {
		b.WriteString(e.Iface)
	} else {
		b.WriteString("<anonymous>")
	}
	if e.Method != "" {
		b.WriteString(": method ")
		b.WriteString(e.Method)
	}
	if e.Prop != "" {
		b.WriteString(": property ")
		b.WriteString(e.Prop)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// Introspect classifies every method of def, pairs accessors into
// properties and builds the dispatch table. Methods that match no
// accessor convention become behaviors. The returned error is an
// *IntrospectionError.
func Introspect(def Def) (*Shape, error) {
	if def.Name == "" {
		return nil, &IntrospectionError{Reason: "definition has no interface name"}
	}

	s := &Shape{
		name:     def.Name,
		props:    make(map[string]*Property),
		dispatch: make(map[string]DispatchEntry),
	}
	builds := make(map[string]*propBuild)

	for _, m := range def.Methods {
		if IsReservedMethod(m.Name) {
			continue
		}
		if _, dup := s.dispatch[m.Name]; dup {
			return nil, &IntrospectionError{Iface: def.Name, Method: m.Name, Reason: "duplicate method"}
		}
		op, prop, t := classify(m)
		if op == OpBehavior {
			s.dispatch[m.Name] = DispatchEntry{Op: OpBehavior, Iface: def.Name, Method: m}
			s.behaviors = append(s.behaviors, m)
			continue
		}
		b := builds[prop]
		if b == nil {
			b = &propBuild{ord: len(s.order)}
			builds[prop] = b
			s.order = append(s.order, prop)
		}
		if err := b.record(def.Name, m, op, t); err != nil {
			return nil, err
		}
		s.dispatch[m.Name] = DispatchEntry{Op: op, Prop: prop, Iface: def.Name, Method: m}
	}

	fixed := make(map[string]struct{}, len(def.Fixed))
	for _, f := range def.Fixed {
		fixed[f] = struct{}{}
	}

	for _, name := range s.order {
		p, err := builds[name].finish(def.Name, name)
		if err != nil {
			return nil, err
		}
		if _, ok := fixed[name]; ok {
			if p.Type.Kind != List {
				return nil, &IntrospectionError{Iface: def.Name, Prop: name, Reason: "fixed requires a sequence property"}
			}
			p.Type.Kind = Array
			delete(fixed, name)
		}
		s.props[name] = p
	}
	for f := range fixed {
		return nil, &IntrospectionError{Iface: def.Name, Prop: f, Reason: "fixed names an undeclared property"}
	}
	return s, nil
}

// classify maps one method onto an accessor form, or OpBehavior when no
// convention matches. For element accessors t is the element type; for
// plain accessors it is the property type.
func classify(m Method) (op Op, prop string, t Type) {
	if stem, ok := strings.CutPrefix(m.Name, "Set"); ok && stem != "" {
		if !setterResults(m.Results) {
			return OpBehavior, "", Type{}
		}
		switch len(m.Params) {
		case 1:
			return OpSet, Decapitalize(stem), m.Params[0]
		case 2:
			if base, ok := strings.CutSuffix(stem, "At"); ok && base != "" && m.Params[0].Kind == Int {
				return OpIndexedSet, Decapitalize(base), m.Params[1]
			}
			if base, ok := strings.CutSuffix(stem, "For"); ok && base != "" && m.Params[0].Kind == String {
				return OpKeyedSet, Decapitalize(base), m.Params[1]
			}
		}
		return OpBehavior, "", Type{}
	}

	if len(m.Results) != 1 || m.Results[0].Kind == Error {
		return OpBehavior, "", Type{}
	}
	switch len(m.Params) {
	case 0:
		return OpGet, Decapitalize(m.Name), m.Results[0]
	case 1:
		if base, ok := strings.CutSuffix(m.Name, "At"); ok && base != "" && m.Params[0].Kind == Int && !m.Results[0].Kind.IsContainer() {
			return OpIndexedGet, Decapitalize(base), m.Results[0]
		}
		if base, ok := strings.CutSuffix(m.Name, "For"); ok && base != "" && m.Params[0].Kind == String && !m.Results[0].Kind.IsContainer() {
			return OpKeyedGet, Decapitalize(base), m.Results[0]
		}
	}
	return OpBehavior, "", Type{}
}

// setterResults accepts no results or a single error result.
func setterResults(rs []Type) bool {
	switch len(rs) {
	case 0:
		return true
	case 1:
		return rs[0].Kind == Error
	default:
		return false
	}
}

// propBuild accumulates the accessor evidence for one property before it
// is reconciled into a Property.
type propBuild struct {
	ord      int
	whole    *Type // from plain get/set
	elemIdx  *Type // from At accessors
	elemKey  *Type // from For accessors
	readable bool
	writable bool
}

func (b *propBuild) record(iface string, m Method, op Op, t Type) error {
	merge := func(slot **Type, what string) error {
		if *slot != nil && !(*slot).Equal(t) {
			return &IntrospectionError{
				Iface:  iface,
				Method: m.Name,
				Reason: fmt.Sprintf("%s type %s disagrees with earlier %s", what, t, *slot),
			}
		}
		if *slot == nil {
			cp := t
			*slot = &cp
		}
		return nil
	}
	switch op {
	case OpGet:
		b.readable = true
		return merge(&b.whole, "property")
	case OpSet:
		b.writable = true
		return merge(&b.whole, "property")
	case OpIndexedGet:
		b.readable = true
		return merge(&b.elemIdx, "element")
	case OpIndexedSet:
		b.writable = true
		return merge(&b.elemIdx, "element")
	case OpKeyedGet:
		b.readable = true
		return merge(&b.elemKey, "element")
	case OpKeyedSet:
		b.writable = true
		return merge(&b.elemKey, "element")
	}
	return nil
}

func (b *propBuild) finish(iface, name string) (*Property, error) {
	fail := func(reason string) (*Property, error) {
		return nil, &IntrospectionError{Iface: iface, Prop: name, Reason: reason}
	}
	if b.elemIdx != nil && b.elemKey != nil {
		return fail("property cannot be both indexed and keyed")
	}

	var t Type
	switch {
	case b.whole != nil:
		t = *b.whole
		if b.elemIdx != nil {
			if t.Kind != List {
				return fail("indexed accessors require a sequence property")
			}
			if !t.ElemType().Equal(*b.elemIdx) {
				return fail(fmt.Sprintf("element accessors use %s but the property holds %s", *b.elemIdx, t))
			}
		}
		if b.elemKey != nil {
			if t.Kind != Map {
				return fail("keyed accessors require a mapped property")
			}
			if !t.ElemType().Equal(*b.elemKey) {
				return fail(fmt.Sprintf("element accessors use %s but the property holds %s", *b.elemKey, t))
			}
		}
	case b.elemIdx != nil:
		t = ListOf(*b.elemIdx)
	case b.elemKey != nil:
		t = MapOf(*b.elemKey)
	}

	if err := checkPropType(t); err != "" {
		return fail(err)
	}
	return &Property{
		Name:     name,
		Type:     t,
		Iface:    iface,
		Readable: b.readable,
		Writable: b.writable,
	}, nil
}

func checkPropType(t Type) string {
	switch t.Kind {
	case Invalid:
		return "property has no type"
	case Error:
		return "error is not a property type"
	case Interface:
		if t.Iface == "" {
			return "interface property must name its interface"
		}
	case List, Array, Map:
		e := t.ElemType()
		if !e.Kind.IsScalar() {
			return fmt.Sprintf("container element must be a scalar type, not %s", e)
		}
		if e.Kind == Interface && e.Iface == "" {
			return "interface element must name its interface"
		}
	}
	return ""
}
