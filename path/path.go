// Package path implements the property path grammar used to address
// values inside a dynamic instance graph: dotted descent, numeric
// indexing, append-form indexing and string keying.
//
// Grammar:
//
//	path    := segment ("." segment)*
//	segment := name bracket?
//	bracket := "[" content "]"
//	name    := [A-Za-z_][A-Za-z0-9_]*
//
// Bracket content is classified syntactically: empty content ("name[]")
// is the append form, all-digit content is a numeric index, and an
// identifier is a key. Whether an index or a key is ultimately legal for
// a segment is decided against the property shape during resolution,
// not by the parser.
package path

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind classifies the syntactic form of one segment.
type SegmentKind int

const (
	// KindName is a plain property name without a bracket group.
	KindName SegmentKind = iota
	// KindIndex is a numeric subscript, as in "items[3]".
	KindIndex
	// KindAppend is the empty subscript, as in "items[]".
	KindAppend
	// KindKey is an identifier subscript, as in "attrs[color]".
	KindKey
)

func (k SegmentKind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindIndex:
		return "index"
	case KindAppend:
		return "append"
	case KindKey:
		return "key"
	default:
		return "segment(" + strconv.Itoa(int(k)) + ")"
	}
}

// Segment is one step of a parsed path.
//
// For KindIndex both Index and Key are populated; Key holds the raw
// digits so that String can reproduce the original spelling (for
// example "items[007]").
type Segment struct {
	Name  string
	Kind  SegmentKind
	Index int
	Key   string
}

func (s Segment) String() string {
	switch s.Kind {
	case KindIndex, KindKey:
		return s.Name + "[" + s.Key + "]"
	case KindAppend:
		return s.Name + "[]"
	default:
		return s.Name
	}
}

// Expr is a parsed, immutable path expression.
type Expr struct {
	segs []Segment
}

// SyntaxError reports a malformed path expression with the byte offset
// at which parsing gave up.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path %q: %s (offset %d)", e.Expr, e.Msg, e.Pos)
}

// Parse parses s into an Expr. The returned error is a *SyntaxError.
func Parse(s string) (Expr, error) {
	if s == "" {
		return Expr{}, &SyntaxError{Expr: s, Pos: 0, Msg: "empty path"}
	}
	var segs []Segment
	i := 0
	for {
		start := i
		if i >= len(s) || !isNameStart(s[i]) {
			return Expr{}, &SyntaxError{Expr: s, Pos: i, Msg: "expected property name"}
		}
		i++
		for i < len(s) && isNamePart(s[i]) {
			i++
		}
		seg := Segment{Name: s[start:i], Kind: KindName}
		if i < len(s) && s[i] == '[' {
			rel := strings.IndexByte(s[i:], ']')
			if rel < 0 {
				return Expr{}, &SyntaxError{Expr: s, Pos: i, Msg: "unbalanced brackets"}
			}
			content := s[i+1 : i+rel]
			switch {
			case content == "":
				seg.Kind = KindAppend
			case allDigits(content):
				n, err := strconv.Atoi(content)
				if err != nil {
					return Expr{}, &SyntaxError{Expr: s, Pos: i + 1, Msg: "index too large"}
				}
				seg.Kind = KindIndex
				seg.Index = n
				seg.Key = content
			case isIdent(content):
				seg.Kind = KindKey
				seg.Key = content
			default:
				return Expr{}, &SyntaxError{Expr: s, Pos: i + 1, Msg: "subscript must be empty, an index, or a key"}
			}
			i += rel + 1
		}
		segs = append(segs, seg)
		if i == len(s) {
			break
		}
		switch s[i] {
		case '.':
			i++
			if i == len(s) {
				return Expr{}, &SyntaxError{Expr: s, Pos: i, Msg: "trailing dot"}
			}
		case '[':
			return Expr{}, &SyntaxError{Expr: s, Pos: i, Msg: "only one subscript per segment"}
		default:
			return Expr{}, &SyntaxError{Expr: s, Pos: i, Msg: "unexpected character"}
		}
	}
	return Expr{segs: segs}, nil
}

// MustParse is Parse for statically known expressions; it panics on error.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// FromSegments builds an Expr from already validated segments. It is
// intended for programmatic callers that assemble paths without going
// through the textual grammar; segment names are not re-checked.
func FromSegments(segs ...Segment) Expr {
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	return Expr{segs: cp}
}

// Len returns the number of segments.
func (e Expr) Len() int { return len(e.segs) }

// At returns the i-th segment.
func (e Expr) At(i int) Segment { return e.segs[i] }

// First returns the first segment. It panics on the zero Expr.
func (e Expr) First() Segment { return e.segs[0] }

// Last returns the final segment. It panics on the zero Expr.
func (e Expr) Last() Segment { return e.segs[len(e.segs)-1] }

// Segments returns a copy of the segment list.
func (e Expr) Segments() []Segment {
	cp := make([]Segment, len(e.segs))
	copy(cp, e.segs)
	return cp
}

// IsZero reports whether e is the zero Expr (no segments).
func (e Expr) IsZero() bool { return len(e.segs) == 0 }

// IsSimple reports whether e is a single plain name with no subscript.
func (e Expr) IsSimple() bool {
	return len(e.segs) == 1 && e.segs[0].Kind == KindName
}

// HasAppend reports whether any segment uses the append form.
func (e Expr) HasAppend() bool {
	for _, s := range e.segs {
		if s.Kind == KindAppend {
			return true
		}
	}
	return false
}

// String reassembles the canonical spelling of the path. Numeric
// subscripts keep their original digits.
func (e Expr) String() string {
	var b strings.Builder
	for i, s := range e.segs {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isIdent(s string) bool {
	if len(s) == 0 || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNamePart(s[i]) {
			return false
		}
	}
	return true
}
