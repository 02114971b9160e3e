package dynaprop

import (
	"github.com/reoring/dynaprop/shape"
)

// Config bundles the optional construction inputs. Later configs win
// field by field when several are passed to New.
type Config struct {
	// Values seeds the store. Keys are path expressions; entry order is
	// observable for append-form keys.
	Values *Values
	// Delegates cover behavior methods and delegated properties.
	Delegates []Delegate
	// Hook customizes this construction and every nested one below it.
	Hook Hook
	// Registry resolves interface definitions; nil uses shape.Default().
	Registry *shape.Registry
	// Policy tunes unknown-name handling and strictness.
	Policy Policy

	// primary is the definition the whole construction started from; it
	// is threaded through nested constructions for the hook.
	primary shape.Def
}

func mergeConfig(cfgs []Config) Config {
	var out Config
	for _, c := range cfgs {
		if c.Values != nil {
			out.Values = c.Values
		}
		if c.Delegates != nil {
			out.Delegates = c.Delegates
		}
		if !c.Hook.isZero() {
			out.Hook = c.Hook
		}
		if c.Registry != nil {
			out.Registry = c.Registry
		}
		out.Policy = c.Policy
	}
	return out
}

// New builds an instance of the interface def describes, seeded from
// cfg.Values. Construction is all-or-nothing: any failure returns
// (nil, Issues) and nothing partially built is observable.
func New(def shape.Def, cfgs ...Config) (*Instance, error) {
	inst, iss := construct(def, mergeConfig(cfgs), 0)
	if iss != nil {
		return nil, iss
	}
	return inst, nil
}

// MustNew is New for statically known definitions; it panics on error.
func MustNew(def shape.Def, cfgs ...Config) *Instance {
	inst, err := New(def, cfgs...)
	if err != nil {
		panic(err)
	}
	return inst
}

// NewFor introspects the Go interface type I and builds an instance of
// it. Fixed names sequence properties with fixed-size array semantics.
func NewFor[I any](cfg Config, fixed ...string) (*Instance, error) {
	def, err := shape.DefFor[I](fixed...)
	if err != nil {
		return nil, introspectionFailure("", err)
	}
	return New(def, cfg)
}

// combined is the merged view of every shape an instance implements:
// primary first, then delegate and hook-extended interfaces. Properties
// and methods from all shapes share one namespace.
type combined struct {
	shapes   []*shape.Shape
	props    map[string]*shape.Property
	order    []string
	dispatch map[string]shape.DispatchEntry
}

// construct is the internal constructor. depth counts nesting levels
// from the root instance; vivified children construct at depth+1.
func construct(def shape.Def, cfg Config, depth int) (*Instance, Issues) {
	reg := cfg.Registry
	if reg == nil {
		reg = shape.Default()
	}
	if depth == 0 {
		cfg.primary = def
	}

	defs := []shape.Def{def}
	for _, d := range cfg.Delegates {
		dd := d.DeclaredInterface()
		if dd.IsZero() {
			return nil, oneIssue(issueAt("", CodeIntrospection, map[string]string{
				"reason": "delegate declares no interface",
			}))
		}
		if dd.Name != def.Name {
			defs = append(defs, dd)
		}
	}
	if cfg.Hook.ExtendTypes != nil {
		defs = append(defs, cfg.Hook.ExtendTypes(depth, def, cfg.primary, defs, cfg.Values)...)
	}

	comb, iss := combine(reg, defs)
	if iss != nil {
		return nil, iss
	}

	behaviors, propDels, iss := coverDelegates(reg, comb, cfg.Delegates)
	if iss != nil {
		return nil, iss
	}

	st := newStore(comb, storeCfg{
		reg:       reg,
		hook:      cfg.Hook,
		delegates: cfg.Delegates,
		behaviors: behaviors,
		propDels:  propDels,
		policy:    cfg.Policy,
		primary:   cfg.primary,
		depth:     depth,
	})
	inst := &Instance{st: st}

	if cfg.Values.Len() > 0 {
		if iss := st.setAll(cfg.Values, cfg.Policy, true); iss != nil {
			return nil, iss
		}
	}

	if cfg.Hook.Seed != nil {
		if err := cfg.Hook.Seed(depth, def, inst); err != nil {
			if iss, ok := AsIssues(err); ok {
				return nil, iss
			}
			it := issueAt("", CodeIntrospection, nil)
			it.Cause = err
			it.Message = err.Error()
			return nil, oneIssue(it)
		}
	}
	return inst, nil
}

// combine resolves and merges the shapes of defs. A property or method
// declared by two interfaces must agree; contradictions fail with a
// shape_introspection issue.
func combine(reg *shape.Registry, defs []shape.Def) (*combined, Issues) {
	comb := &combined{
		props:    make(map[string]*shape.Property),
		dispatch: make(map[string]shape.DispatchEntry),
	}
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.Name]; dup {
			continue
		}
		seen[def.Name] = struct{}{}

		if err := reg.Register(def); err != nil {
			return nil, introspectionFailure("", err)
		}
		s, err := reg.Resolve(def)
		if err != nil {
			return nil, introspectionFailure("", err)
		}
		comb.shapes = append(comb.shapes, s)

		for _, p := range s.Props() {
			prev, ok := comb.props[p.Name]
			if !ok {
				comb.props[p.Name] = p
				comb.order = append(comb.order, p.Name)
				continue
			}
			if !prev.Type.Equal(p.Type) {
				return nil, oneIssue(issueAt(p.Name, CodeIntrospection, map[string]string{
					"name":   p.Name,
					"reason": "property declared with conflicting types by " + prev.Iface + " and " + p.Iface,
				}))
			}
		}
		for method, e := range s.Dispatch() {
			prev, ok := comb.dispatch[method]
			if !ok {
				comb.dispatch[method] = e
				continue
			}
			if prev.Op != e.Op || prev.Prop != e.Prop {
				return nil, oneIssue(issueAt("", CodeIntrospection, map[string]string{
					"method": method,
					"reason": "method declared with conflicting meanings by " + prev.Iface + " and " + e.Iface,
				}))
			}
		}
	}
	return comb, nil
}

// coverDelegates maps every behavior method and delegated property to
// its delegate and verifies full coverage.
func coverDelegates(reg *shape.Registry, comb *combined, delegates []Delegate) (map[string]BehaviorDelegate, map[string]PropertyDelegate, Issues) {
	var behaviors map[string]BehaviorDelegate
	var propDels map[string]PropertyDelegate

	for _, d := range delegates {
		s, err := reg.Resolve(d.DeclaredInterface())
		if err != nil {
			return nil, nil, introspectionFailure("", err)
		}
		if bd, ok := d.(BehaviorDelegate); ok {
			for _, m := range s.Behaviors() {
				if behaviors == nil {
					behaviors = make(map[string]BehaviorDelegate)
				}
				behaviors[m.Name] = bd
			}
		}
		if pd, ok := d.(PropertyDelegate); ok {
			for _, p := range s.Props() {
				if propDels == nil {
					propDels = make(map[string]PropertyDelegate)
				}
				propDels[p.Name] = pd
			}
		}
	}

	var iss Issues
	for _, s := range comb.shapes {
		for _, m := range s.Behaviors() {
			if _, ok := behaviors[m.Name]; !ok {
				iss = AppendIssues(iss, issueAt("", CodeUnsupportedBehavior, map[string]string{
					"method": m.Name,
					"iface":  s.Name(),
				}))
			}
		}
	}
	if iss != nil {
		return nil, nil, iss
	}
	return behaviors, propDels, nil
}
