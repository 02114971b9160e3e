package dynaprop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/dynaprop/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeMalformedPath means a path expression failed to parse.
	CodeMalformedPath = "malformed_path"
	// CodeUnknownProperty means a name is not declared by the shape.
	CodeUnknownProperty = "unknown_property"
	// CodeInvalidPath means a structurally inapplicable operation: indexing a
	// plain property, descending through a leaf, appending in a read, and the
	// like.
	CodeInvalidPath = "invalid_path"
	// CodeArrayBounds means an index fell outside a fixed-size sequence.
	CodeArrayBounds = "array_bounds"
	// CodeTypeMismatch means a value does not have the declared type.
	CodeTypeMismatch = "type_mismatch"
	// CodeUnsupportedBehavior means an interface declares behavior methods no
	// delegate covers.
	CodeUnsupportedBehavior = "unsupported_behavior"
	// CodeIntrospection means an interface definition could not be turned
	// into a shape.
	CodeIntrospection = "shape_introspection"
	// CodeUnknownMethod means a dispatched method name is not part of the
	// instance's shapes.
	CodeUnknownMethod = "unknown_method"
	// CodeBadArgument means a dispatched call got the wrong argument count or
	// types.
	CodeBadArgument = "bad_argument"
	// CodeOverflow means a numeric literal does not fit the declared kind.
	CodeOverflow = "overflow"

	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Issue represents a single failure entry.
type Issue struct {
	Path    string // Property path spelling (for example: contacts[2].email).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected types, etc.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"expected":"int64", "got":"string"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		if it.Path == "" {
			b.WriteString(it.Code)
		} else {
			fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// issueAt builds one Issue with its message resolved through the i18n
// catalog. data feeds both the message and Params.
func issueAt(path, code string, data map[string]string) Issue {
	it := Issue{Path: path, Code: code, Message: i18n.T(code, data), Offset: -1}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

// oneIssue wraps a single Issue as an error.
func oneIssue(it Issue) Issues { return Issues{it} }
