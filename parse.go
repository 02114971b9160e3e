package dynaprop

import (
	"errors"
	"io"

	eng "github.com/reoring/dynaprop/internal/engine"
)

// ParseValues decodes one document from src into an insertion-ordered
// Values collection. Objects become nested *Values, arrays []any, and
// numbers stay textual (json.Number) unless the source asks for float64.
//
// Enforcement follows the options: duplicate keys, maximum depth and
// maximum size. Non-fatal issues are discarded; use
// ParseValuesWithIssues to collect them.
func ParseValues(src Source, opts ...ParseOpt) (*Values, error) {
	v, _, err := ParseValuesWithIssues(src, opts...)
	return v, err
}

// ParseValuesWithIssues is ParseValues plus the non-fatal issues gathered
// during enforcement (duplicate key warnings, truncation notices).
func ParseValuesWithIssues(src Source, opts ...ParseOpt) (*Values, Issues, error) {
	opt := mergeParseOpt(opts)

	var warns Issues
	enforced := EnforceSourceWith(src, opt, func(it Issue) {
		warns = AppendIssues(warns, it)
	})

	conv := eng.NumberConv(nil)
	if src.NumberMode() == NumberFloat64 {
		conv = eng.NumberAsFloat64
	}

	inner := EngineTokenSource(enforced)
	decoded, err := eng.DecodeOrderedFromSource(inner, conv)
	if err != nil {
		return nil, warns, parseFailure(err, src)
	}

	// One document per source: anything after the first value is an error.
	if _, err := inner.NextToken(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing content after document")
		}
		return nil, warns, parseFailure(err, src)
	}

	root, ok := valuesFromDecoded(decoded).(*Values)
	if !ok {
		it := issueAt("", CodeParseError, nil)
		it.Hint = "top-level value must be an object"
		return nil, warns, oneIssue(it)
	}
	return root, warns, nil
}

// parseFailure converts driver and enforcement errors into Issues.
func parseFailure(err error, src Source) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return oneIssue(Issue{Path: ie.Path, Code: ie.Code, Message: ie.Message, Offset: src.Location()})
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	it := issueAt("", CodeParseError, nil)
	it.Cause = err
	it.Offset = src.Location()
	if err != nil {
		it.Message = err.Error()
	}
	return oneIssue(it)
}

// valuesFromDecoded rewrites the ordered decode tree into the public
// Values representation.
func valuesFromDecoded(v any) any {
	switch t := v.(type) {
	case []eng.Pair:
		out := NewValues()
		for _, p := range t {
			out.Add(p.Key, valuesFromDecoded(p.Val))
		}
		return out
	case []any:
		for i := range t {
			t[i] = valuesFromDecoded(t[i])
		}
		return t
	default:
		return v
	}
}
