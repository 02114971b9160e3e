package shape

import (
	"reflect"
	"sync"
)

// Registry introspects defs on first use and memoizes the resulting
// shapes, by interface name and by Go type. It is safe for concurrent
// use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Shape
	byType map[reflect.Type]*Shape
	defs   map[string]Def
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Shape),
		byType: make(map[reflect.Type]*Shape),
		defs:   make(map[string]Def),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used when no explicit one is
// configured.
func Default() *Registry { return defaultRegistry }

// Register records def for later resolution by name without
// introspecting it yet. Re-registering an identical def is a no-op;
// registering a different def under an existing name is an error.
func (r *Registry) Register(def Def) error {
	if def.Name == "" {
		return &IntrospectionError{Reason: "definition has no interface name"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.defs[def.Name]; ok {
		if !sameDef(prev, def) {
			return &IntrospectionError{Iface: def.Name, Reason: "already registered with a different definition"}
		}
		return nil
	}
	r.defs[def.Name] = def
	return nil
}

// Resolve introspects def, or returns the memoized shape when the name
// was resolved before.
func (r *Registry) Resolve(def Def) (*Shape, error) {
	r.mu.RLock()
	s, ok := r.byName[def.Name]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	s, err := Introspect(def)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if prev, ok := r.byName[def.Name]; ok {
		s = prev
	} else {
		r.byName[def.Name] = s
		if _, ok := r.defs[def.Name]; !ok {
			r.defs[def.Name] = def
		}
	}
	r.mu.Unlock()
	return s, nil
}

// Def returns the registered definition for name.
func (r *Registry) Def(name string) (Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// ResolveName returns the shape for a previously registered or resolved
// interface name.
func (r *Registry) ResolveName(name string) (*Shape, error) {
	r.mu.RLock()
	s, ok := r.byName[name]
	if !ok {
		var def Def
		def, ok = r.defs[name]
		r.mu.RUnlock()
		if !ok {
			return nil, &IntrospectionError{Iface: name, Reason: "unknown interface"}
		}
		return r.Resolve(def)
	}
	r.mu.RUnlock()
	return s, nil
}

// ResolveType introspects a Go interface type via DefOf and memoizes the
// result by both name and type.
func (r *Registry) ResolveType(t reflect.Type) (*Shape, error) {
	r.mu.RLock()
	s, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}
	def, err := DefOf(t)
	if err != nil {
		return nil, err
	}
	s, err = r.Resolve(def)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.byType[t] = s
	r.mu.Unlock()
	return s, nil
}

// ResolveRef resolves an Interface-kind type reference, preferring the
// Go type when the def came from reflection.
func (r *Registry) ResolveRef(t Type) (*Shape, error) {
	if t.Kind != Interface {
		return nil, &IntrospectionError{Iface: t.String(), Reason: "not an interface type"}
	}
	if t.Go != nil {
		return r.ResolveType(t.Go)
	}
	return r.ResolveName(t.Iface)
}

// Invalidate drops the memoized shape and def for name. Shapes already
// handed out stay valid.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, name)
	delete(r.defs, name)
	for t, s := range r.byType {
		if s.Name() == name {
			delete(r.byType, t)
		}
	}
}

// Names returns the interface names known to the registry, resolved or
// merely registered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.byName)+len(r.defs))
	var out []string
	for n := range r.byName {
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for n := range r.defs {
		if _, ok := seen[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func sameDef(a, b Def) bool {
	if a.Name != b.Name || len(a.Methods) != len(b.Methods) || len(a.Fixed) != len(b.Fixed) {
		return false
	}
	for i := range a.Methods {
		if !sameMethod(a.Methods[i], b.Methods[i]) {
			return false
		}
	}
	for i := range a.Fixed {
		if a.Fixed[i] != b.Fixed[i] {
			return false
		}
	}
	return true
}

func sameMethod(a, b Method) bool {
	if a.Name != b.Name || len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if !a.Params[i].Equal(b.Params[i]) {
			return false
		}
	}
	for i := range a.Results {
		if !a.Results[i].Equal(b.Results[i]) {
			return false
		}
	}
	return true
}
