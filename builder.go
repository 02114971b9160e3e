package dynaprop

import (
	"github.com/reoring/dynaprop/internal/prims"
	"github.com/reoring/dynaprop/shape"
)

// buildValue turns one raw entry value into the stored representation
// for a declared type, constructing nested structure as needed: object
// documents (*Values, map[string]any) become nested instances, arrays
// become sequences of built elements, and scalars go through the
// kind-exact coercion. The result is detached; callers link it into the
// graph only after the whole build succeeded.
func (st *Store) buildValue(here string, t shape.Type, v any) (any, Issues) {
	switch t.Kind {
	case shape.Interface:
		return st.buildNested(here, t, v)
	case shape.List:
		return st.buildList(here, t, v)
	case shape.Array:
		return st.buildArray(here, t, v)
	case shape.Map:
		return st.buildMap(here, t, v)
	default:
		return coerceScalar(here, t, v, st.cfg.policy.Strictness)
	}
}

func (st *Store) buildNested(here string, t shape.Type, v any) (any, Issues) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Instance:
		// Assignment aliases, it does not copy: both holders observe
		// later mutations of a shared nested instance.
		if !x.Implements(t.Iface) {
			return nil, oneIssue(typeIssue(here, t, "instance "+x.Shape().Name()))
		}
		return x, nil
	case *Values:
		return st.constructNested(here, t, x)
	case map[string]any:
		return st.constructNested(here, t, ValuesFromMap(x))
	default:
		return nil, oneIssue(typeIssue(here, t, typeName(v)))
	}
}

func (st *Store) constructNested(here string, t shape.Type, vals *Values) (any, Issues) {
	child, iss := st.vivify(t, here)
	if iss != nil {
		return nil, iss
	}
	if iss := child.st.setAll(vals, st.cfg.policy, false); iss != nil {
		return nil, rebase(here, iss)
	}
	return child, nil
}

func (st *Store) buildList(here string, t shape.Type, v any) (any, Issues) {
	if v == nil {
		return nil, nil
	}
	raw, ok := asAnySlice(v, t.ElemType())
	if !ok {
		return nil, oneIssue(typeIssue(here, t, typeName(v)))
	}
	out := make([]any, len(raw))
	for i, e := range raw {
		built, iss := st.buildValue(here+"["+itoa(i)+"]", t.ElemType(), e)
		if iss != nil {
			return nil, iss
		}
		out[i] = built
	}
	return out, nil
}

// buildArray builds a fixed sequence. Assigning the whole value is how a
// fixed array gets its size; indexed writes never grow it.
func (st *Store) buildArray(here string, t shape.Type, v any) (any, Issues) {
	if v == nil {
		return nil, nil
	}
	elem := t.ElemType()
	strat, primitive := prims.ForKind(elem.Kind)

	if primitive && prims.Is(v, elem.Kind) {
		// Adopt the caller's typed slice; the store and the caller alias
		// the same backing array.
		return v, nil
	}
	raw, ok := asAnySlice(v, elem)
	if !ok {
		return nil, oneIssue(typeIssue(here, t, typeName(v)))
	}
	if primitive {
		arr := strat.New(len(raw))
		for i, e := range raw {
			built, iss := coerceScalar(here+"["+itoa(i)+"]", elem, e, st.cfg.policy.Strictness)
			if iss != nil {
				return nil, iss
			}
			if err := strat.Set(arr, i, built); err != nil {
				return nil, oneIssue(typeIssue(here+"["+itoa(i)+"]", elem, typeName(e)))
			}
		}
		return arr, nil
	}
	out := make([]any, len(raw))
	for i, e := range raw {
		built, iss := st.buildValue(here+"["+itoa(i)+"]", elem, e)
		if iss != nil {
			return nil, iss
		}
		out[i] = built
	}
	return out, nil
}

func (st *Store) buildMap(here string, t shape.Type, v any) (any, Issues) {
	var src *Values
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Values:
		src = x
	case map[string]any:
		src = ValuesFromMap(x)
	default:
		return nil, oneIssue(typeIssue(here, t, typeName(v)))
	}
	out := NewValues()
	var iss Issues
	src.Range(func(k string, e any) bool {
		built, bIss := st.buildValue(here+"["+k+"]", t.ElemType(), e)
		if bIss != nil {
			iss = bIss
			return false
		}
		out.Set(k, built)
		return true
	})
	if iss != nil {
		return nil, iss
	}
	return out, nil
}

// asAnySlice widens a caller-supplied sequence to []any. Documents
// decode to []any already; typed Go slices of the element's kind are
// accepted from programmatic callers.
func asAnySlice(v any, elem shape.Type) ([]any, bool) {
	if raw, ok := v.([]any); ok {
		return raw, true
	}
	switch x := v.(type) {
	case []bool:
		if elem.Kind == shape.Bool {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []byte:
		if elem.Kind == shape.Byte {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []int16:
		if elem.Kind == shape.Int16 {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []rune:
		if elem.Kind == shape.Rune {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []int:
		if elem.Kind == shape.Int {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []int64:
		if elem.Kind == shape.Int64 {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []float32:
		if elem.Kind == shape.Float32 {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []float64:
		if elem.Kind == shape.Float64 {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	case []string:
		if elem.Kind == shape.String {
			return widen(len(x), func(i int) any { return x[i] }), true
		}
	}
	return nil, false
}

func widen(n int, at func(int) any) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = at(i)
	}
	return out
}
