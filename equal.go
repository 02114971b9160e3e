package dynaprop

import (
	"hash/fnv"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Identity is defined over store contents, not object identity: two
// instances with the same primary interface and equal stores compare
// equal and hash alike, so instances behave as values in collection
// membership tests.

// Equal reports whether in and other have the same primary interface
// and property-wise equal stores. Nested instances compare recursively;
// aliased nested instances are equal to equal copies, not only to
// themselves.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in == other {
		return true
	}
	return storesEqual(in.st, other.st)
}

func storesEqual(a, b *Store) bool {
	if a.Shape().Name() != b.Shape().Name() {
		return false
	}
	for _, name := range a.comb.order {
		av, aok := a.Value(name)
		bv, bok := b.Value(name)
		if aok != bok {
			return false
		}
		if aok && !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Values:
		y, ok := b.(*Values)
		if !ok || x.Len() != y.Len() {
			return false
		}
		eq := true
		x.Range(func(k string, v any) bool {
			w, present := y.Get(k)
			if !present || !valueEqual(v, w) {
				eq = false
				return false
			}
			return true
		})
		return eq
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Hash returns a content hash consistent with Equal.
func (in *Instance) Hash() uint64 {
	h := fnv.New64a()
	in.hashInto(h)
	return h.Sum64()
}

type hasher interface {
	Write(p []byte) (int, error)
}

func (in *Instance) hashInto(h hasher) {
	if in == nil {
		h.Write([]byte("<nil>"))
		return
	}
	h.Write([]byte(in.Shape().Name()))
	for _, name := range in.st.comb.order {
		v, ok := in.st.Value(name)
		if !ok {
			continue
		}
		h.Write([]byte{0})
		h.Write([]byte(name))
		h.Write([]byte{'='})
		hashValue(h, v)
	}
}

func hashValue(h hasher, v any) {
	switch x := v.(type) {
	case nil:
		h.Write([]byte("null"))
	case *Instance:
		x.hashInto(h)
	case []any:
		h.Write([]byte{'['})
		for _, e := range x {
			hashValue(h, e)
			h.Write([]byte{','})
		}
		h.Write([]byte{']'})
	case *Values:
		// Key order is not identity for mapped values; hash sorted.
		keys := x.Keys()
		sort.Strings(keys)
		h.Write([]byte{'{'})
		for _, k := range keys {
			e, _ := x.Get(k)
			h.Write([]byte(k))
			h.Write([]byte{':'})
			hashValue(h, e)
			h.Write([]byte{','})
		}
		h.Write([]byte{'}'})
	case string:
		h.Write([]byte{'"'})
		h.Write([]byte(x))
		h.Write([]byte{'"'})
	default:
		h.Write([]byte(scalarString(v)))
	}
}

// String renders the instance for diagnostics: the primary interface
// name and every materialized property in declaration order.
func (in *Instance) String() string {
	if in == nil {
		return "<nil>"
	}
	var b strings.Builder
	in.writeTo(&b)
	return b.String()
}

func (in *Instance) writeTo(b *strings.Builder) {
	b.WriteString(in.Shape().Name())
	b.WriteByte('{')
	first := true
	for _, name := range in.st.comb.order {
		v, ok := in.st.Value(name)
		if !ok {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(name)
		b.WriteString(": ")
		writeValue(b, v)
	}
	b.WriteByte('}')
}

func writeValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case *Instance:
		x.writeTo(b)
	case []any:
		b.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case *Values:
		b.WriteByte('{')
		i := 0
		x.Range(func(k string, e any) bool {
			if i > 0 {
				b.WriteString(", ")
			}
			i++
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, e)
			return true
		})
		b.WriteByte('}')
	case string:
		b.WriteString(strconv.Quote(x))
	default:
		b.WriteString(scalarString(v))
	}
}

func scalarString(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case byte:
		return strconv.FormatUint(uint64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case rune:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice {
			var b strings.Builder
			b.WriteByte('[')
			for i := 0; i < rv.Len(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(scalarString(rv.Index(i).Interface()))
			}
			b.WriteByte(']')
			return b.String()
		}
		return "<" + reflect.TypeOf(v).String() + ">"
	}
}
