package shape

import "strconv"

// Op classifies how a dispatched method call is routed.
type Op int

const (
	OpGet Op = iota
	OpSet
	OpIndexedGet
	OpIndexedSet
	OpKeyedGet
	OpKeyedSet
	OpBehavior
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpSet:
		return "set"
	case OpIndexedGet:
		return "indexed-get"
	case OpIndexedSet:
		return "indexed-set"
	case OpKeyedGet:
		return "keyed-get"
	case OpKeyedSet:
		return "keyed-set"
	case OpBehavior:
		return "behavior"
	default:
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
}

// DispatchEntry is one row of the dispatch table: it records what a
// method name means for a shape.
type DispatchEntry struct {
	Op     Op
	Prop   string // property name; empty for OpBehavior
	Iface  string // declaring interface
	Method Method
}

// Property is the introspected description of one declared property.
type Property struct {
	Name     string
	Type     Type
	Iface    string // declaring interface
	Readable bool
	Writable bool
}

// Indexed reports whether the property is a sequence.
func (p *Property) Indexed() bool { return p.Type.Kind == List || p.Type.Kind == Array }

// Mapped reports whether the property is string-keyed.
func (p *Property) Mapped() bool { return p.Type.Kind == Map }

// Fixed reports whether the property is a fixed-size sequence.
func (p *Property) Fixed() bool { return p.Type.Kind == Array }

// Elem returns the element type for container properties and the zero
// Type otherwise.
func (p *Property) Elem() Type { return p.Type.ElemType() }

// Shape is the immutable, introspected description of an interface: its
// properties in declaration order, the dispatch table for its methods and
// the behavior methods that take no part in property access.
type Shape struct {
	name      string
	props     map[string]*Property
	order     []string
	dispatch  map[string]DispatchEntry
	behaviors []Method
}

// Name returns the interface name.
func (s *Shape) Name() string { return s.name }

// Prop looks up a property by name.
func (s *Shape) Prop(name string) (*Property, bool) {
	p, ok := s.props[name]
	return p, ok
}

// PropNames returns the property names in declaration order.
func (s *Shape) PropNames() []string {
	cp := make([]string, len(s.order))
	copy(cp, s.order)
	return cp
}

// Props returns the properties in declaration order.
func (s *Shape) Props() []*Property {
	out := make([]*Property, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.props[n])
	}
	return out
}

// Lookup resolves a method name against the dispatch table.
func (s *Shape) Lookup(method string) (DispatchEntry, bool) {
	e, ok := s.dispatch[method]
	return e, ok
}

// Dispatch returns a copy of the dispatch table, keyed by method name.
func (s *Shape) Dispatch() map[string]DispatchEntry {
	cp := make(map[string]DispatchEntry, len(s.dispatch))
	for k, v := range s.dispatch {
		cp[k] = v
	}
	return cp
}

// Behaviors returns the methods that fall outside the accessor
// conventions, in declaration order.
func (s *Shape) Behaviors() []Method {
	cp := make([]Method, len(s.behaviors))
	copy(cp, s.behaviors)
	return cp
}

// NumProps returns the number of declared properties.
func (s *Shape) NumProps() int { return len(s.order) }
