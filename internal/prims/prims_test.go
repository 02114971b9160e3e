package prims_test

import (
	"errors"
	"testing"

	"github.com/reoring/dynaprop/internal/prims"
	"github.com/reoring/dynaprop/shape"
)

var primitiveKinds = []shape.Kind{
	shape.Bool, shape.Byte, shape.Int16, shape.Rune,
	shape.Int, shape.Int64, shape.Float32, shape.Float64,
}

func TestForKind_AllPrimitives(t *testing.T) {
	for _, k := range primitiveKinds {
		s, ok := prims.ForKind(k)
		if !ok {
			t.Fatalf("%v: no strategy", k)
		}
		if s.Kind() != k {
			t.Fatalf("%v: strategy reports %v", k, s.Kind())
		}
		arr := s.New(3)
		n, err := s.Len(arr)
		if err != nil || n != 3 {
			t.Fatalf("%v: len=%d err=%v", k, n, err)
		}
		got, err := s.Get(arr, 0)
		if err != nil {
			t.Fatalf("%v: get: %v", k, err)
		}
		if got != s.Zero() {
			t.Fatalf("%v: zero = %#v want %#v", k, got, s.Zero())
		}
		if !prims.Is(arr, k) {
			t.Fatalf("%v: Is = false on own sequence", k)
		}
	}
	if _, ok := prims.ForKind(shape.String); ok {
		t.Fatalf("string has a primitive strategy")
	}
}

func TestStrategy_SetGet(t *testing.T) {
	s, _ := prims.ForKind(shape.Int64)
	arr := s.New(2)
	if err := s.Set(arr, 1, int64(42)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(arr, 1)
	if err != nil || got != int64(42) {
		t.Fatalf("get = %v, %v", got, err)
	}
	// slot 0 keeps its zero value
	got, _ = s.Get(arr, 0)
	if got != int64(0) {
		t.Fatalf("slot0 = %v", got)
	}
}

func TestStrategy_KindExact(t *testing.T) {
	s, _ := prims.ForKind(shape.Int)
	arr := s.New(1)
	if err := s.Set(arr, 0, int64(1)); !errors.Is(err, prims.ErrElemKind) {
		t.Fatalf("int64 into []int: %v", err)
	}
	s32, _ := prims.ForKind(shape.Rune)
	arr32 := s32.New(1)
	if err := s32.Set(arr32, 0, 1); !errors.Is(err, prims.ErrElemKind) {
		t.Fatalf("int into []rune: %v", err)
	}
	if err := s32.Set(arr32, 0, rune('x')); err != nil {
		t.Fatalf("rune into []rune: %v", err)
	}
}

func TestStrategy_Bounds(t *testing.T) {
	s, _ := prims.ForKind(shape.Bool)
	arr := s.New(2)
	for _, i := range []int{-1, 2} {
		if _, err := s.Get(arr, i); !errors.Is(err, prims.ErrBounds) {
			t.Fatalf("get %d: %v", i, err)
		}
		if err := s.Set(arr, i, true); !errors.Is(err, prims.ErrBounds) {
			t.Fatalf("set %d: %v", i, err)
		}
	}
}

func TestStrategy_WrongSequence(t *testing.T) {
	s, _ := prims.ForKind(shape.Float32)
	if _, err := s.Len([]float64{1}); !errors.Is(err, prims.ErrNotArray) {
		t.Fatalf("len: %v", err)
	}
	if _, err := s.Get("nope", 0); !errors.Is(err, prims.ErrNotArray) {
		t.Fatalf("get: %v", err)
	}
	if err := s.Set(nil, 0, float32(1)); !errors.Is(err, prims.ErrNotArray) {
		t.Fatalf("set: %v", err)
	}
	if prims.Is([]float64{}, shape.Float32) {
		t.Fatalf("Is accepted the wrong element type")
	}
}

func TestStrategy_AliasesCallerSlice(t *testing.T) {
	s, _ := prims.ForKind(shape.Int)
	backing := []int{1, 2, 3}
	if err := s.Set(backing, 0, 9); err != nil {
		t.Fatalf("set: %v", err)
	}
	if backing[0] != 9 {
		t.Fatalf("write did not reach the backing slice")
	}
}
