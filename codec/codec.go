// Package codec converts between store leaf representations (the wire
// side: what a property slot actually holds) and richer domain values.
// Codecs keep the store's type discipline intact: a conversion failure
// surfaces as an error before anything reaches the store.
package codec

import (
	dynaprop "github.com/reoring/dynaprop"
)

// Codec converts between a wire representation W, legal as a store
// leaf, and a domain representation D.
type Codec[W, D any] interface {
	Decode(wire W) (D, error)
	Encode(domain D) (W, error)
}

// Get reads the leaf at expr and decodes it through c.
func Get[W, D any](st *dynaprop.Store, expr string, c Codec[W, D]) (D, error) {
	var zero D
	raw, err := st.Get(expr)
	if err != nil {
		return zero, err
	}
	w, ok := raw.(W)
	if !ok {
		return zero, dynaprop.Issues{dynaprop.IssueAt(expr, dynaprop.CodeTypeMismatch,
			"stored value does not have the codec's wire type", nil)}
	}
	return c.Decode(w)
}

// Set encodes v through c and writes the wire value at expr.
func Set[W, D any](st *dynaprop.Store, expr string, c Codec[W, D], v D) error {
	w, err := c.Encode(v)
	if err != nil {
		return err
	}
	return st.Set(expr, w)
}

// Identity returns the Codec that stores a value unchanged.
func Identity[T any]() Codec[T, T] { return identityCodec[T]{} }

type identityCodec[T any] struct{}

func (identityCodec[T]) Decode(w T) (T, error) { return w, nil }
func (identityCodec[T]) Encode(d T) (T, error) { return d, nil }
