package dynaprop

import (
	"github.com/reoring/dynaprop/internal/prims"
	"github.com/reoring/dynaprop/path"
	"github.com/reoring/dynaprop/shape"
)

// Store holds the property state of one instance: one slot per declared
// property, presence flags describing how each slot got its value, and
// the extras kept under UnknownPassthrough.
//
// Stored representations by property type: primitive and string leaves
// hold the Go value, nested interfaces hold *Instance, growable
// sequences hold []any, fixed primitive sequences hold the typed slice
// managed by the kind's strategy, fixed reference sequences hold []any,
// and mapped properties hold *Values.
//
// A put mutates the graph at exactly one join point, after every check
// has passed; anything new the path needs (nested instances, grown
// sequences) is built detached and linked in a single final step. A
// failed put therefore leaves the graph untouched.
//
// Stores are not safe for concurrent use.
type Store struct {
	comb   *combined
	cfg    storeCfg
	vals   map[string]any
	pres   map[string]Presence
	extras *Values
}

// storeCfg is the construction context a store carries so nested
// instances vivified through it inherit the same configuration.
type storeCfg struct {
	reg       *shape.Registry
	hook      Hook
	delegates []Delegate
	behaviors map[string]BehaviorDelegate
	propDels  map[string]PropertyDelegate
	policy    Policy
	primary   shape.Def
	depth     int
}

func newStore(comb *combined, cfg storeCfg) *Store {
	return &Store{
		comb: comb,
		cfg:  cfg,
		vals: make(map[string]any),
		pres: make(map[string]Presence),
	}
}

// Shape returns the primary shape.
func (st *Store) Shape() *shape.Shape { return st.comb.shapes[0] }

// Shapes returns every shape merged into this store, primary first.
func (st *Store) Shapes() []*shape.Shape {
	cp := make([]*shape.Shape, len(st.comb.shapes))
	copy(cp, st.comb.shapes)
	return cp
}

// Names returns the declared property names in declaration order.
func (st *Store) Names() []string {
	cp := make([]string, len(st.comb.order))
	copy(cp, st.comb.order)
	return cp
}

// Prop looks up a declared property.
func (st *Store) Prop(name string) (*shape.Property, bool) {
	p, ok := st.comb.props[name]
	return p, ok
}

// Value returns the raw stored representation of a declared property and
// whether the slot has been materialized. Delegated properties are
// consulted through their delegate.
func (st *Store) Value(name string) (any, bool) {
	if d, ok := st.cfg.propDels[name]; ok {
		v, err := d.GetProperty(st, name)
		if err != nil {
			return nil, false
		}
		return v, true
	}
	v, ok := st.vals[name]
	return v, ok
}

// PresenceOf returns the presence flags of a declared property.
func (st *Store) PresenceOf(name string) Presence { return st.pres[name] }

// Extras returns the entries kept under UnknownPassthrough, or nil.
func (st *Store) Extras() *Values { return st.extras }

// Depth returns the construction depth of this store's instance.
func (st *Store) Depth() int { return st.cfg.depth }

// ---- read path ----

// Get resolves a path expression against the graph and returns the value
// it addresses. Reads never materialize structure: a missing
// intermediate fails with an invalid_path issue, while an unset leaf
// reads as the kind's zero value.
func (st *Store) Get(expr string) (any, error) {
	segs, err := parsePath(expr)
	if err != nil {
		return nil, err
	}
	return st.get(segs, "")
}

// GetPath is Get for already parsed expressions.
func (st *Store) GetPath(p path.Expr) (any, error) {
	if p.IsZero() {
		return nil, oneIssue(issueAt("", CodeMalformedPath, map[string]string{"reason": "empty path"}))
	}
	return st.get(p.Segments(), "")
}

func (st *Store) get(segs []path.Segment, base string) (any, error) {
	seg := segs[0]
	rest := segs[1:]
	here := joinSeg(base, seg)

	prop, ok := st.comb.props[seg.Name]
	if !ok {
		return nil, oneIssue(issueAt(joinProp(base, seg.Name), CodeUnknownProperty, map[string]string{"name": seg.Name}))
	}

	switch seg.Kind {
	case path.KindName:
		val := st.leafValue(prop)
		if len(rest) == 0 {
			return val, nil
		}
		child, iss := st.descend(prop, val, here)
		if iss != nil {
			return nil, iss
		}
		return child.st.get(rest, here)

	case path.KindAppend:
		return nil, oneIssue(invalidPath(here, "append form is write-only"))

	default: // KindIndex or KindKey
		if prop.Mapped() {
			return st.getMapped(prop, seg, rest, here)
		}
		if !prop.Indexed() {
			return nil, oneIssue(invalidPath(here, "property is not a sequence"))
		}
		if seg.Kind == path.KindKey {
			return nil, oneIssue(invalidPath(here, "sequence requires a numeric index"))
		}
		return st.getIndexed(prop, seg, rest, here)
	}
}

func (st *Store) getIndexed(prop *shape.Property, seg path.Segment, rest []path.Segment, here string) (any, error) {
	elem := prop.Elem()
	stored := st.vals[prop.Name]

	if strat, ok := prims.ForKind(elem.Kind); ok && prop.Fixed() {
		if len(rest) > 0 {
			return nil, oneIssue(invalidPath(here, "cannot descend into a primitive element"))
		}
		if stored == nil {
			return nil, oneIssue(boundsIssue(here, seg.Index, 0))
		}
		v, err := strat.Get(stored, seg.Index)
		if err != nil {
			n, _ := strat.Len(stored)
			return nil, oneIssue(boundsIssue(here, seg.Index, n))
		}
		return v, nil
	}

	list, _ := stored.([]any)
	if seg.Index < 0 || seg.Index >= len(list) {
		return nil, oneIssue(boundsIssue(here, seg.Index, len(list)))
	}
	v := list[seg.Index]
	if len(rest) == 0 {
		if v == nil {
			if _, primitive := prims.ForKind(elem.Kind); primitive {
				return zeroOf(elem), nil
			}
		}
		return v, nil
	}
	child, iss := st.descendElem(elem, v, here)
	if iss != nil {
		return nil, iss
	}
	return child.st.get(rest, here)
}

func (st *Store) getMapped(prop *shape.Property, seg path.Segment, rest []path.Segment, here string) (any, error) {
	if seg.Kind == path.KindAppend {
		return nil, oneIssue(invalidPath(here, "mapped property cannot append"))
	}
	m, _ := st.vals[prop.Name].(*Values)
	v, present := m.Get(seg.Key)
	if len(rest) == 0 {
		if !present {
			return zeroOf(prop.Elem()), nil
		}
		return v, nil
	}
	if !present {
		return nil, oneIssue(invalidPath(here, "missing entry on path"))
	}
	child, iss := st.descendElem(prop.Elem(), v, here)
	if iss != nil {
		return nil, iss
	}
	return child.st.get(rest, here)
}

// leafValue reads one property slot, yielding the kind's zero value for
// unset scalar slots.
func (st *Store) leafValue(prop *shape.Property) any {
	if v, ok := st.Value(prop.Name); ok {
		return v
	}
	return zeroOf(prop.Type)
}

// descend checks that a mid-path value is a nested instance.
func (st *Store) descend(prop *shape.Property, val any, here string) (*Instance, Issues) {
	if prop.Type.Kind != shape.Interface {
		return nil, oneIssue(invalidPath(here, "cannot descend into a "+prop.Type.String()+" property"))
	}
	return instanceOn(val, here)
}

func (st *Store) descendElem(elem shape.Type, val any, here string) (*Instance, Issues) {
	if elem.Kind != shape.Interface {
		return nil, oneIssue(invalidPath(here, "cannot descend into a "+elem.String()+" element"))
	}
	return instanceOn(val, here)
}

func instanceOn(val any, here string) (*Instance, Issues) {
	if val == nil {
		return nil, oneIssue(invalidPath(here, "missing instance on path"))
	}
	child, ok := val.(*Instance)
	if !ok {
		return nil, oneIssue(invalidPath(here, "value on path is not an instance"))
	}
	return child, nil
}

// Has reports whether a path resolves to a present value. Missing
// structure answers false; only malformed expressions, unknown names and
// structurally impossible steps are errors.
func (st *Store) Has(expr string) (bool, error) {
	segs, err := parsePath(expr)
	if err != nil {
		return false, err
	}
	return st.has(segs, "")
}

func (st *Store) has(segs []path.Segment, base string) (bool, error) {
	seg := segs[0]
	rest := segs[1:]
	here := joinSeg(base, seg)

	prop, ok := st.comb.props[seg.Name]
	if !ok {
		return false, oneIssue(issueAt(joinProp(base, seg.Name), CodeUnknownProperty, map[string]string{"name": seg.Name}))
	}

	switch seg.Kind {
	case path.KindName:
		if len(rest) == 0 {
			if _, ok := st.cfg.propDels[seg.Name]; ok {
				v, _ := st.Value(seg.Name)
				return v != nil, nil
			}
			return st.pres[seg.Name].Has(PresenceSeen) || st.pres[seg.Name].Has(PresenceDefaultApplied), nil
		}
		if prop.Type.Kind != shape.Interface {
			return false, oneIssue(invalidPath(here, "cannot descend into a "+prop.Type.String()+" property"))
		}
		child, _ := st.Value(seg.Name)
		inst, ok := child.(*Instance)
		if !ok {
			return false, nil
		}
		return inst.st.has(rest, here)

	case path.KindAppend:
		return false, oneIssue(invalidPath(here, "append form is write-only"))

	default:
		if prop.Mapped() {
			m, _ := st.vals[prop.Name].(*Values)
			v, present := m.Get(seg.Key)
			if len(rest) == 0 {
				return present, nil
			}
			inst, ok := v.(*Instance)
			if !ok {
				return false, nil
			}
			return inst.st.has(rest, here)
		}
		if !prop.Indexed() {
			return false, oneIssue(invalidPath(here, "property is not a sequence"))
		}
		if seg.Kind == path.KindKey {
			return false, oneIssue(invalidPath(here, "sequence requires a numeric index"))
		}
		elem := prop.Elem()
		stored := st.vals[prop.Name]
		if strat, ok := prims.ForKind(elem.Kind); ok && prop.Fixed() {
			if len(rest) > 0 {
				return false, oneIssue(invalidPath(here, "cannot descend into a primitive element"))
			}
			if stored == nil {
				return false, nil
			}
			n, _ := strat.Len(stored)
			return seg.Index >= 0 && seg.Index < n, nil
		}
		list, _ := stored.([]any)
		if seg.Index < 0 || seg.Index >= len(list) {
			return false, nil
		}
		v := list[seg.Index]
		if len(rest) == 0 {
			if elem.Kind.IsPrimitive() {
				return true, nil
			}
			return v != nil, nil
		}
		inst, ok := v.(*Instance)
		if !ok {
			return false, nil
		}
		return inst.st.has(rest, here)
	}
}

// ---- write path ----

// Set resolves a path expression and assigns a value. The put is atomic:
// every check runs first, any new structure the path needs is built
// detached, and the graph mutates at a single join point only after
// nothing can fail anymore.
func (st *Store) Set(expr string, v any) error {
	segs, err := parsePath(expr)
	if err != nil {
		return err
	}
	if iss := st.put(segs, "", v); iss != nil {
		return iss
	}
	return nil
}

// SetPath is Set for already parsed expressions.
func (st *Store) SetPath(p path.Expr, v any) error {
	if p.IsZero() {
		return oneIssue(issueAt("", CodeMalformedPath, map[string]string{"reason": "empty path"}))
	}
	if iss := st.put(p.Segments(), "", v); iss != nil {
		return iss
	}
	return nil
}

// SetAll applies the entries of vals in order. Keys are parsed and their
// root names checked against the shape before any entry is applied; a
// failure during the ordered apply stops there, leaving earlier entries
// in place.
func (st *Store) SetAll(vals *Values) error {
	if iss := st.setAll(vals, Policy{OnUnknown: UnknownStrict}, false); iss != nil {
		return iss
	}
	return nil
}

func (st *Store) setAll(vals *Values, policy Policy, construction bool) Issues {
	if vals.Len() == 0 {
		return nil
	}

	type planned struct {
		key  string
		segs []path.Segment
		val  any
	}
	var plan []planned
	var iss Issues
	failFast := policy.Strictness.OnDuplicateKey == Error && construction

	for _, e := range vals.Entries() {
		segs, err := parsePath(e.Key)
		if err != nil {
			iss = AppendIssues(iss, err...)
			if failFast {
				return iss
			}
			continue
		}
		if _, known := st.comb.props[segs[0].Name]; !known {
			switch policy.OnUnknown {
			case UnknownStrip:
				continue
			case UnknownPassthrough:
				if st.extras == nil {
					st.extras = NewValues()
				}
				st.extras.Add(e.Key, e.Val)
				continue
			default:
				iss = AppendIssues(iss, issueAt(segs[0].Name, CodeUnknownProperty, map[string]string{"name": segs[0].Name}))
				if failFast {
					return iss
				}
				continue
			}
		}
		plan = append(plan, planned{key: e.Key, segs: segs, val: e.Val})
	}
	if len(iss) > 0 {
		return iss
	}

	// Append-form segments sharing a prefix within one bulk application
	// address the same new element, so a flat document like
	// {"items[].a": 1, "items[].b": 2} builds one element carrying both
	// leaves. A repeated identical key starts the next element.
	appendAt := make(map[string]int)
	applied := make(map[string]bool)
	for _, p := range plan {
		segs := st.resolveAppends(p.segs, appendAt, applied[p.key])
		applied[p.key] = true
		if putIss := st.put(segs, "", p.val); putIss != nil {
			return putIss
		}
		st.recordAppends(segs, appendAt)
	}
	return nil
}

// resolveAppends rewrites the append segments of one planned entry into
// the concrete indices recorded for their rendered prefix, so entries of
// the same bulk application land in the same element. fresh marks a key
// repeated within the application: its innermost append gets a new
// trailing element while outer appends keep grouping. Appends on
// anything but a reachable growable sequence stay as they are: the put
// either reports the proper issue or appends and recordAppends picks
// the index up afterwards.
func (st *Store) resolveAppends(segs []path.Segment, appendAt map[string]int, fresh bool) []path.Segment {
	last := -1
	if fresh {
		for i, s := range segs {
			if s.Kind == path.KindAppend {
				last = i
			}
		}
	}
	out := segs
	copied := false
	prefix := ""
	cur := st
	for i, seg := range segs {
		resolved := seg
		if seg.Kind == path.KindAppend && cur != nil {
			if prop, ok := cur.comb.props[seg.Name]; ok && prop.Indexed() && !prop.Fixed() {
				k := joinProp(prefix, seg.Name)
				idx, have := appendAt[k]
				if !have || i == last {
					list, _ := cur.vals[prop.Name].([]any)
					idx = len(list)
					appendAt[k] = idx
				}
				resolved = path.Segment{Name: seg.Name, Kind: path.KindIndex, Index: idx, Key: itoa(idx)}
				if !copied {
					out = append([]path.Segment(nil), segs...)
					copied = true
				}
				out[i] = resolved
			}
		}
		prefix = joinSeg(prefix, resolved)
		cur = cur.childAt(resolved)
	}
	return out
}

// recordAppends back-fills appendAt for append segments a put applied
// unresolved (their store did not exist before the put vivified it), so
// later entries of the same bulk application join the element the put
// created.
func (st *Store) recordAppends(segs []path.Segment, appendAt map[string]int) {
	prefix := ""
	cur := st
	for _, seg := range segs {
		if cur == nil {
			return
		}
		resolved := seg
		if seg.Kind == path.KindAppend {
			list, ok := cur.vals[seg.Name].([]any)
			if !ok || len(list) == 0 {
				return
			}
			idx := len(list) - 1
			appendAt[joinProp(prefix, seg.Name)] = idx
			resolved = path.Segment{Name: seg.Name, Kind: path.KindIndex, Index: idx, Key: itoa(idx)}
		}
		prefix = joinSeg(prefix, resolved)
		cur = cur.childAt(resolved)
	}
}

// childAt answers the nested store one resolved segment addresses, or
// nil when nothing is linked there yet.
func (st *Store) childAt(seg path.Segment) *Store {
	if st == nil {
		return nil
	}
	var v any
	switch seg.Kind {
	case path.KindName:
		v, _ = st.Value(seg.Name)
	case path.KindIndex:
		list, _ := st.vals[seg.Name].([]any)
		if seg.Index < 0 || seg.Index >= len(list) {
			return nil
		}
		v = list[seg.Index]
	case path.KindKey:
		m, _ := st.vals[seg.Name].(*Values)
		v, _ = m.Get(seg.Key)
	default:
		return nil
	}
	child, ok := v.(*Instance)
	if !ok {
		return nil
	}
	return child.st
}

// put assigns v at the location segs addresses below st. It returns nil
// after mutating at exactly one join point, or Issues without having
// mutated anything.
func (st *Store) put(segs []path.Segment, base string, v any) Issues {
	seg := segs[0]
	rest := segs[1:]
	here := joinSeg(base, seg)

	prop, ok := st.comb.props[seg.Name]
	if !ok {
		return oneIssue(issueAt(joinProp(base, seg.Name), CodeUnknownProperty, map[string]string{"name": seg.Name}))
	}

	switch seg.Kind {
	case path.KindName:
		if len(rest) == 0 {
			return st.putLeaf(prop, here, v)
		}
		return st.putThrough(prop, rest, here, v)
	default:
		if prop.Mapped() {
			return st.putMapped(prop, seg, rest, here, v)
		}
		if !prop.Indexed() {
			return oneIssue(invalidPath(here, "property is not a sequence"))
		}
		if seg.Kind == path.KindKey {
			return oneIssue(invalidPath(here, "sequence requires a numeric index"))
		}
		return st.putIndexed(prop, seg, rest, here, v)
	}
}

// putLeaf assigns a whole property slot.
func (st *Store) putLeaf(prop *shape.Property, here string, v any) Issues {
	if !prop.Writable {
		return oneIssue(invalidPath(here, "property is read-only"))
	}
	built, iss := st.buildValue(here, prop.Type, v)
	if iss != nil {
		return iss
	}
	if d, ok := st.cfg.propDels[prop.Name]; ok {
		if err := d.SetProperty(st, prop.Name, built); err != nil {
			return delegateFailure(here, err)
		}
		return nil
	}
	st.vals[prop.Name] = built
	st.markSet(prop.Name, v == nil)
	return nil
}

// putThrough descends one level, vivifying a detached nested instance
// when the link is missing and attaching it only after the deeper put
// succeeded.
func (st *Store) putThrough(prop *shape.Property, rest []path.Segment, here string, v any) Issues {
	if prop.Type.Kind != shape.Interface {
		return oneIssue(invalidPath(here, "cannot descend into a "+prop.Type.String()+" property"))
	}
	cur, _ := st.Value(prop.Name)
	if cur != nil {
		child, ok := cur.(*Instance)
		if !ok {
			return oneIssue(invalidPath(here, "value on path is not an instance"))
		}
		return child.st.put(rest, here, v)
	}

	child, iss := st.vivify(prop.Type, here)
	if iss != nil {
		return iss
	}
	if iss := child.st.put(rest, here, v); iss != nil {
		return iss
	}
	if d, ok := st.cfg.propDels[prop.Name]; ok {
		if err := d.SetProperty(st, prop.Name, child); err != nil {
			return delegateFailure(here, err)
		}
		return nil
	}
	st.vals[prop.Name] = child
	st.markDefault(prop.Name)
	return nil
}

func (st *Store) putIndexed(prop *shape.Property, seg path.Segment, rest []path.Segment, here string, v any) Issues {
	elem := prop.Elem()

	if strat, ok := prims.ForKind(elem.Kind); ok && prop.Fixed() {
		return st.putFixedPrim(prop, strat, seg, rest, here, v)
	}
	if prop.Fixed() {
		return st.putFixedRef(prop, seg, rest, here, v)
	}
	return st.putGrowable(prop, seg, rest, here, v)
}

// putFixedPrim writes one slot of a fixed primitive sequence through its
// kind strategy. Fixed sequences never grow: the slice assigned to the
// property fixes the length.
func (st *Store) putFixedPrim(prop *shape.Property, strat prims.Strategy, seg path.Segment, rest []path.Segment, here string, v any) Issues {
	if len(rest) > 0 {
		return oneIssue(invalidPath(here, "cannot descend into a primitive element"))
	}
	if seg.Kind == path.KindAppend {
		return oneIssue(boundsIssue(here, -1, st.fixedLen(prop, strat)))
	}
	stored := st.vals[prop.Name]
	n := 0
	if stored != nil {
		n, _ = strat.Len(stored)
	}
	if seg.Index < 0 || seg.Index >= n {
		return oneIssue(boundsIssue(here, seg.Index, n))
	}
	built, iss := coerceScalar(here, prop.Elem(), v, st.cfg.policy.Strictness)
	if iss != nil {
		return iss
	}
	if err := strat.Set(stored, seg.Index, built); err != nil {
		return oneIssue(invalidPath(here, err.Error()))
	}
	st.markSet(prop.Name, false)
	return nil
}

func (st *Store) fixedLen(prop *shape.Property, strat prims.Strategy) int {
	stored := st.vals[prop.Name]
	if stored == nil {
		return 0
	}
	n, _ := strat.Len(stored)
	return n
}

// putFixedRef writes one slot of a fixed reference sequence.
func (st *Store) putFixedRef(prop *shape.Property, seg path.Segment, rest []path.Segment, here string, v any) Issues {
	list, _ := st.vals[prop.Name].([]any)
	if seg.Kind == path.KindAppend {
		return oneIssue(boundsIssue(here, -1, len(list)))
	}
	if seg.Index < 0 || seg.Index >= len(list) {
		return oneIssue(boundsIssue(here, seg.Index, len(list)))
	}
	if len(rest) == 0 {
		built, iss := st.buildValue(here, prop.Elem(), v)
		if iss != nil {
			return iss
		}
		list[seg.Index] = built
		st.markSet(prop.Name, false)
		return nil
	}
	return st.putElemThrough(prop, list, nil, seg.Index, rest, here, v)
}

// putGrowable writes into a growable sequence, growing it when the index
// is past the end. Slots between the old length and the target fill with
// the element kind's zero value for primitive elements and stay nil for
// reference elements. The grown slice becomes visible only after the
// deeper work succeeded.
func (st *Store) putGrowable(prop *shape.Property, seg path.Segment, rest []path.Segment, here string, v any) Issues {
	list, _ := st.vals[prop.Name].([]any)
	idx := seg.Index
	if seg.Kind == path.KindAppend {
		idx = len(list)
	}
	if idx < 0 {
		return oneIssue(boundsIssue(here, idx, len(list)))
	}

	grown := list
	if idx >= len(list) {
		grown = make([]any, idx+1)
		copy(grown, list)
		if _, primitive := prims.ForKind(prop.Elem().Kind); primitive {
			z := zeroOf(prop.Elem())
			for i := len(list); i < idx; i++ {
				grown[i] = z
			}
		}
	}

	if len(rest) == 0 {
		built, iss := st.buildValue(here, prop.Elem(), v)
		if iss != nil {
			return iss
		}
		grown[idx] = built
		st.commitList(prop.Name, grown)
		return nil
	}
	return st.putElemThrough(prop, grown, func() { st.commitList(prop.Name, grown) }, idx, rest, here, v)
}

// putElemThrough descends through one sequence slot, vivifying the
// element instance when needed. commit, when non-nil, publishes a grown
// slice after everything deeper has succeeded.
func (st *Store) putElemThrough(prop *shape.Property, list []any, commit func(), idx int, rest []path.Segment, here string, v any) Issues {
	elem := prop.Elem()
	if elem.Kind != shape.Interface {
		return oneIssue(invalidPath(here, "cannot descend into a "+elem.String()+" element"))
	}
	if cur := list[idx]; cur != nil {
		child, ok := cur.(*Instance)
		if !ok {
			return oneIssue(invalidPath(here, "value on path is not an instance"))
		}
		if iss := child.st.put(rest, here, v); iss != nil {
			return iss
		}
		if commit != nil {
			commit()
		}
		return nil
	}
	child, iss := st.vivify(elem, here)
	if iss != nil {
		return iss
	}
	if iss := child.st.put(rest, here, v); iss != nil {
		return iss
	}
	list[idx] = child
	if commit != nil {
		commit()
	} else {
		st.markSet(prop.Name, false)
	}
	return nil
}

func (st *Store) commitList(name string, list []any) {
	st.vals[name] = list
	st.markSet(name, false)
}

func (st *Store) putMapped(prop *shape.Property, seg path.Segment, rest []path.Segment, here string, v any) Issues {
	if seg.Kind == path.KindAppend {
		return oneIssue(invalidPath(here, "mapped property cannot append"))
	}
	m, _ := st.vals[prop.Name].(*Values)

	if len(rest) == 0 {
		built, iss := st.buildValue(here, prop.Elem(), v)
		if iss != nil {
			return iss
		}
		if m == nil {
			m = NewValues()
			st.vals[prop.Name] = m
		}
		m.Set(seg.Key, built)
		st.markSet(prop.Name, false)
		return nil
	}

	elem := prop.Elem()
	if elem.Kind != shape.Interface {
		return oneIssue(invalidPath(here, "cannot descend into a "+elem.String()+" element"))
	}
	if cur, ok := m.Get(seg.Key); ok && cur != nil {
		child, okInst := cur.(*Instance)
		if !okInst {
			return oneIssue(invalidPath(here, "value on path is not an instance"))
		}
		return child.st.put(rest, here, v)
	}
	child, iss := st.vivify(elem, here)
	if iss != nil {
		return iss
	}
	if iss := child.st.put(rest, here, v); iss != nil {
		return iss
	}
	if m == nil {
		m = NewValues()
		st.vals[prop.Name] = m
	}
	m.Set(seg.Key, child)
	st.markSet(prop.Name, false)
	return nil
}

// vivify constructs a detached nested instance for a missing link on a
// put path.
func (st *Store) vivify(t shape.Type, here string) (*Instance, Issues) {
	def, iss := st.defFor(t, here)
	if iss != nil {
		return nil, iss
	}
	child, cIss := construct(def, Config{
		Delegates: st.cfg.delegates,
		Hook:      st.cfg.hook,
		Registry:  st.cfg.reg,
		Policy:    st.cfg.policy,
		primary:   st.cfg.primary,
	}, st.cfg.depth+1)
	if cIss != nil {
		return nil, rebase(here, cIss)
	}
	return child, nil
}

func (st *Store) defFor(t shape.Type, here string) (shape.Def, Issues) {
	if t.Go != nil {
		if _, err := st.cfg.reg.ResolveType(t.Go); err != nil {
			return shape.Def{}, introspectionFailure(here, err)
		}
	}
	def, ok := st.cfg.reg.Def(t.Iface)
	if !ok {
		return shape.Def{}, oneIssue(invalidPath(here, "interface "+t.Iface+" is not registered"))
	}
	return def, nil
}

// Unset clears a plain property back to the unset state.
func (st *Store) Unset(name string) error {
	prop, ok := st.comb.props[name]
	if !ok {
		return oneIssue(issueAt(name, CodeUnknownProperty, map[string]string{"name": name}))
	}
	if _, ok := st.cfg.propDels[name]; ok {
		return oneIssue(invalidPath(name, "delegated property cannot be unset"))
	}
	delete(st.vals, prop.Name)
	delete(st.pres, prop.Name)
	return nil
}

func (st *Store) markSet(name string, wasNull bool) {
	p := st.pres[name] | PresenceSeen
	if wasNull {
		p |= PresenceWasNull
	} else {
		p &^= PresenceWasNull
	}
	st.pres[name] = p
}

func (st *Store) markDefault(name string) {
	st.pres[name] |= PresenceSeen | PresenceDefaultApplied
}

// PresenceMap returns the presence flags of this store and every nested
// instance, keyed by rebased property paths.
func (st *Store) PresenceMap() PresenceMap {
	out := make(PresenceMap)
	st.collectPresence("", out)
	return out
}

func (st *Store) collectPresence(base string, out PresenceMap) {
	for _, name := range st.comb.order {
		p, ok := st.pres[name]
		if !ok {
			continue
		}
		key := internString(joinProp(base, name))
		out[key] = p
		switch v := st.vals[name].(type) {
		case *Instance:
			v.st.collectPresence(key, out)
		case []any:
			for i, e := range v {
				if inst, ok := e.(*Instance); ok {
					inst.st.collectPresence(key+"["+itoa(i)+"]", out)
				}
			}
		case *Values:
			v.Range(func(k string, e any) bool {
				if inst, ok := e.(*Instance); ok {
					inst.st.collectPresence(key+"["+k+"]", out)
				}
				return true
			})
		}
	}
}

// ---- shared helpers ----

func parsePath(expr string) ([]path.Segment, Issues) {
	p, err := path.Parse(expr)
	if err != nil {
		se := err.(*path.SyntaxError)
		it := issueAt("", CodeMalformedPath, map[string]string{"expr": se.Expr, "reason": se.Msg})
		it.Cause = err
		return nil, oneIssue(it)
	}
	return p.Segments(), nil
}

func joinSeg(base string, s path.Segment) string {
	if base == "" {
		return s.String()
	}
	return base + "." + s.String()
}

func joinProp(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func invalidPath(pathStr, reason string) Issue {
	it := issueAt(pathStr, CodeInvalidPath, nil)
	it.Hint = reason
	return it
}

func boundsIssue(pathStr string, idx, n int) Issue {
	data := map[string]string{"length": itoa(n)}
	if idx >= 0 {
		data["index"] = itoa(idx)
	}
	return issueAt(pathStr, CodeArrayBounds, data)
}

func delegateFailure(pathStr string, err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	it := issueAt(pathStr, CodeInvalidPath, nil)
	it.Cause = err
	it.Message = err.Error()
	return oneIssue(it)
}

func introspectionFailure(pathStr string, err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	it := issueAt(pathStr, CodeIntrospection, nil)
	it.Cause = err
	if err != nil {
		it.Message = err.Error()
	}
	return oneIssue(it)
}

// rebase prefixes the paths of nested construction issues with the link
// they surfaced under.
func rebase(base string, iss Issues) Issues {
	if base == "" {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" {
			it.Path = base
		} else {
			it.Path = base + "." + it.Path
		}
		out[i] = it
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	bp := len(buf)
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		bp--
		buf[bp] = '-'
	}
	return string(buf[bp:])
}
