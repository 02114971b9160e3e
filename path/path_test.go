package path_test

import (
	"errors"
	"testing"

	"github.com/reoring/dynaprop/path"
)

func TestParse_SegmentForms(t *testing.T) {
	e, err := path.Parse("user.addresses[2].tags[].attrs[color]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Len(); got != 4 {
		t.Fatalf("segments=%d want 4", got)
	}
	s := e.At(0)
	if s.Name != "user" || s.Kind != path.KindName {
		t.Fatalf("seg0 = %+v", s)
	}
	s = e.At(1)
	if s.Name != "addresses" || s.Kind != path.KindIndex || s.Index != 2 {
		t.Fatalf("seg1 = %+v", s)
	}
	s = e.At(2)
	if s.Name != "tags" || s.Kind != path.KindAppend {
		t.Fatalf("seg2 = %+v", s)
	}
	s = e.At(3)
	if s.Name != "attrs" || s.Kind != path.KindKey || s.Key != "color" {
		t.Fatalf("seg3 = %+v", s)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, in := range []string{
		"name",
		"a.b.c",
		"items[0]",
		"items[007]",
		"items[]",
		"attrs[color].depth",
		"_x9.y_",
	} {
		e, err := path.Parse(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got := e.String(); got != in {
			t.Fatalf("%q: round-trip = %q", in, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
	}{
		{"", 0},
		{".", 0},
		{"a.", 2},
		{"a..b", 2},
		{"9a", 0},
		{"a[1", 1},
		{"a[1]]", 4},
		{"a[1][2]", 4},
		{"a[-1]", 2},
		{"a[x.y]", 2},
		{"a b", 1},
		{"a[99999999999999999999]", 2},
	}
	for _, tc := range cases {
		_, err := path.Parse(tc.in)
		if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
		var se *path.SyntaxError
		if !errors.As(err, &se) {
			t.Fatalf("%q: error type %T", tc.in, err)
		}
		if se.Pos != tc.pos {
			t.Fatalf("%q: pos=%d want %d (%v)", tc.in, se.Pos, tc.pos, err)
		}
	}
}

func TestParse_DigitKeyIsIndex(t *testing.T) {
	e, err := path.Parse("attrs[0]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := e.First()
	if s.Kind != path.KindIndex || s.Index != 0 || s.Key != "0" {
		t.Fatalf("seg = %+v", s)
	}
}

func TestExpr_Helpers(t *testing.T) {
	e := path.MustParse("a.b[]")
	if e.IsZero() || e.IsSimple() {
		t.Fatalf("IsZero/IsSimple on %q", e)
	}
	if !e.HasAppend() {
		t.Fatalf("HasAppend = false")
	}
	if got := e.Last().Name; got != "b" {
		t.Fatalf("Last = %q", got)
	}
	simple := path.MustParse("a")
	if !simple.IsSimple() {
		t.Fatalf("IsSimple(a) = false")
	}
	built := path.FromSegments(path.Segment{Name: "x", Kind: path.KindIndex, Index: 3, Key: "3"})
	if got := built.String(); got != "x[3]" {
		t.Fatalf("FromSegments String = %q", got)
	}
}
