// Package prims implements the per-kind strategies behind fixed-size
// primitive sequences. Each strategy allocates, reads and writes one Go
// slice type; callers pick a strategy by shape.Kind and never touch the
// typed slice directly.
//
// Assignment adopts the caller's slice. The model does not deep-copy on
// write, so a slice handed to a store and the store's own view alias the
// same backing array.
package prims

import (
	"errors"

	"github.com/reoring/dynaprop/shape"
)

var (
	// ErrNotArray means the stored value is not the typed slice the
	// strategy manages.
	ErrNotArray = errors.New("prims: value is not a typed sequence of the expected kind")
	// ErrElemKind means the element written does not have the exact
	// primitive type.
	ErrElemKind = errors.New("prims: element kind mismatch")
	// ErrBounds means the index is negative or past the end.
	ErrBounds = errors.New("prims: index out of range")
)

// Strategy manipulates typed sequences of one primitive kind.
type Strategy interface {
	Kind() shape.Kind
	// New allocates a sequence of n zero values.
	New(n int) any
	// Len returns the length of arr, which must be the managed type.
	Len(arr any) (int, error)
	Get(arr any, i int) (any, error)
	Set(arr any, i int, v any) error
	// Zero returns the kind's zero value.
	Zero() any
}

var strategies = map[shape.Kind]Strategy{
	shape.Bool:    boolStrategy{},
	shape.Byte:    byteStrategy{},
	shape.Int16:   int16Strategy{},
	shape.Rune:    runeStrategy{},
	shape.Int:     intStrategy{},
	shape.Int64:   int64Strategy{},
	shape.Float32: float32Strategy{},
	shape.Float64: float64Strategy{},
}

// ForKind returns the strategy for a primitive kind.
func ForKind(k shape.Kind) (Strategy, bool) {
	s, ok := strategies[k]
	return s, ok
}

// Is reports whether v is the typed sequence managed for kind k.
func Is(v any, k shape.Kind) bool {
	s, ok := strategies[k]
	if !ok {
		return false
	}
	_, err := s.Len(v)
	return err == nil
}

func check(i, n int) error {
	if i < 0 || i >= n {
		return ErrBounds
	}
	return nil
}

type boolStrategy struct{}

func (boolStrategy) Kind() shape.Kind { return shape.Bool }
func (boolStrategy) New(n int) any    { return make([]bool, n) }
func (boolStrategy) Zero() any        { return false }
func (boolStrategy) Len(arr any) (int, error) {
	a, ok := arr.([]bool)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (boolStrategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]bool)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (boolStrategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]bool)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(bool)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type byteStrategy struct{}

func (byteStrategy) Kind() shape.Kind { return shape.Byte }
func (byteStrategy) New(n int) any    { return make([]byte, n) }
func (byteStrategy) Zero() any        { return byte(0) }
func (byteStrategy) Len(arr any) (int, error) {
	a, ok := arr.([]byte)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (byteStrategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]byte)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (byteStrategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]byte)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(byte)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type int16Strategy struct{}

func (int16Strategy) Kind() shape.Kind { return shape.Int16 }
func (int16Strategy) New(n int) any    { return make([]int16, n) }
func (int16Strategy) Zero() any        { return int16(0) }
func (int16Strategy) Len(arr any) (int, error) {
	a, ok := arr.([]int16)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (int16Strategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]int16)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (int16Strategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]int16)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(int16)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type runeStrategy struct{}

func (runeStrategy) Kind() shape.Kind { return shape.Rune }
func (runeStrategy) New(n int) any    { return make([]rune, n) }
func (runeStrategy) Zero() any        { return rune(0) }
func (runeStrategy) Len(arr any) (int, error) {
	a, ok := arr.([]rune)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (runeStrategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]rune)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (runeStrategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]rune)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(rune)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type intStrategy struct{}

func (intStrategy) Kind() shape.Kind { return shape.Int }
func (intStrategy) New(n int) any    { return make([]int, n) }
func (intStrategy) Zero() any        { return 0 }
func (intStrategy) Len(arr any) (int, error) {
	a, ok := arr.([]int)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (intStrategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]int)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (intStrategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]int)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(int)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type int64Strategy struct{}

func (int64Strategy) Kind() shape.Kind { return shape.Int64 }
func (int64Strategy) New(n int) any    { return make([]int64, n) }
func (int64Strategy) Zero() any        { return int64(0) }
func (int64Strategy) Len(arr any) (int, error) {
	a, ok := arr.([]int64)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (int64Strategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]int64)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (int64Strategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]int64)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(int64)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type float32Strategy struct{}

func (float32Strategy) Kind() shape.Kind { return shape.Float32 }
func (float32Strategy) New(n int) any    { return make([]float32, n) }
func (float32Strategy) Zero() any        { return float32(0) }
func (float32Strategy) Len(arr any) (int, error) {
	a, ok := arr.([]float32)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (float32Strategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]float32)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (float32Strategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]float32)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(float32)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}

type float64Strategy struct{}

func (float64Strategy) Kind() shape.Kind { return shape.Float64 }
func (float64Strategy) New(n int) any    { return make([]float64, n) }
func (float64Strategy) Zero() any        { return float64(0) }
func (float64Strategy) Len(arr any) (int, error) {
	a, ok := arr.([]float64)
	if !ok {
		return 0, ErrNotArray
	}
	return len(a), nil
}
func (float64Strategy) Get(arr any, i int) (any, error) {
	a, ok := arr.([]float64)
	if !ok {
		return nil, ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return nil, err
	}
	return a[i], nil
}
func (float64Strategy) Set(arr any, i int, v any) error {
	a, ok := arr.([]float64)
	if !ok {
		return ErrNotArray
	}
	if err := check(i, len(a)); err != nil {
		return err
	}
	e, ok := v.(float64)
	if !ok {
		return ErrElemKind
	}
	a[i] = e
	return nil
}
