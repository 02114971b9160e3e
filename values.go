package dynaprop

import (
	"bytes"
	"sort"

	j "github.com/goccy/go-json"
)

// Entry is one key/value pair of a Values collection.
type Entry struct {
	Key string
	Val any
}

// Values is an insertion-ordered collection of path/value entries used to
// seed construction, drive bulk assignment and carry exports.
//
// Keys are path expressions, so duplicates are meaningful: two entries
// for "tags[].name" describe two appends, not one overwrite. Add keeps
// every entry; Set collapses onto the last entry with the same key.
type Values struct {
	entries []Entry
}

// NewValues returns an empty collection.
func NewValues() *Values { return &Values{} }

// ValuesFromMap builds a collection from a plain map. Keys are added in
// sorted order so the result is deterministic.
func ValuesFromMap(m map[string]any) *Values {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	v := &Values{entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		v.entries = append(v.entries, Entry{Key: k, Val: m[k]})
	}
	return v
}

// Add appends an entry, keeping any earlier entries with the same key.
func (v *Values) Add(key string, val any) *Values {
	v.entries = append(v.entries, Entry{Key: key, Val: val})
	return v
}

// Set replaces the last entry with the given key, or appends one.
func (v *Values) Set(key string, val any) *Values {
	for i := len(v.entries) - 1; i >= 0; i-- {
		if v.entries[i].Key == key {
			v.entries[i].Val = val
			return v
		}
	}
	return v.Add(key, val)
}

// Get returns the value of the last entry with the given key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	for i := len(v.entries) - 1; i >= 0; i-- {
		if v.entries[i].Key == key {
			return v.entries[i].Val, true
		}
	}
	return nil, false
}

// Has reports whether any entry carries the given key.
func (v *Values) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Delete removes every entry with the given key.
func (v *Values) Delete(key string) *Values {
	out := v.entries[:0]
	for _, e := range v.entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	v.entries = out
	return v
}

// Len returns the number of entries.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// Keys returns the entry keys in order, duplicates included.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Key
	}
	return out
}

// Entries returns a copy of the entry list.
func (v *Values) Entries() []Entry {
	if v == nil {
		return nil
	}
	cp := make([]Entry, len(v.entries))
	copy(cp, v.entries)
	return cp
}

// Range calls fn for each entry in order until fn returns false.
func (v *Values) Range(fn func(key string, val any) bool) {
	if v == nil {
		return
	}
	for _, e := range v.entries {
		if !fn(e.Key, e.Val) {
			return
		}
	}
}

// Clone returns a shallow copy: the entry list is copied, the values are
// shared.
func (v *Values) Clone() *Values {
	if v == nil {
		return nil
	}
	return &Values{entries: v.Entries()}
}

// MarshalJSON renders the collection as a JSON object in entry order.
func (v *Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range v.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := j.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		val, err := j.Marshal(e.Val)
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON parses data through the configured JSON driver with
// default parse options.
func (v *Values) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValues(JSONBytes(data))
	if err != nil {
		return err
	}
	v.entries = parsed.entries
	return nil
}
