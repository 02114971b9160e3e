package engine

import "strconv"

// Enforcement wrapper for TokenSource applying duplicate key handling,
// max depth checks, and max bytes truncation in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is the lightweight issue representation used below the
// public error model.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues when set.
	IssueSink func(SimpleIssue)
	// FailFast stops at the first issue encountered.
	FailFast bool
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces duplicate key
// policy, maximum nesting depth, and maximum consumed bytes. Issue paths
// are rendered in the property path spelling ("a.b[0]"); the document
// root renders as the empty path.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
	depth int
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.pathForToken(tok)

	switch tok.Kind {
	case KindBeginObject:
		e.stack = append(e.stack, frame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path})
		if err := e.bumpDepth(path); err != nil {
			return Token{}, err
		}
	case KindBeginArray:
		e.stack = append(e.stack, frame{kind: kindArray, path: path})
		if err := e.bumpDepth(path); err != nil {
			return Token{}, err
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.OnDuplicate != DupIgnore {
					if _, seen := top.keys[tok.String]; seen {
						si := SimpleIssue{Code: "duplicate_key", Path: path, Message: "key '" + tok.String + "' duplicated"}
						if e.opt.IssueSink != nil {
							e.opt.IssueSink(si)
						}
						if e.opt.OnDuplicate == DupError || e.opt.FailFast {
							return Token{}, IssueError{si}
						}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valueDone()
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off >= 0 && off > e.opt.MaxBytes {
			si := SimpleIssue{Code: "truncated", Path: path, Message: "max bytes exceeded"}
			if e.opt.IssueSink != nil {
				e.opt.IssueSink(si)
			}
			return Token{}, IssueError{si}
		}
	}

	return tok, nil
}

func (e *enforcingTokenSource) bumpDepth(path string) error {
	e.depth++
	if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
		si := SimpleIssue{Code: "parse_error", Path: path, Message: "max depth exceeded"}
		if e.opt.IssueSink != nil {
			e.opt.IssueSink(si)
		}
		return IssueError{si}
	}
	return nil
}

// valueDone flips the enclosing object frame back to expecting a key
// after a complete member value.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) pathForToken(tok Token) string {
	if len(e.stack) == 0 {
		if tok.Kind == KindKey {
			return joinProp("", tok.String)
		}
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return joinProp(top.path, tok.String)
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		if top.kind == kindArray {
			p := top.path + "[" + strconv.Itoa(top.nextIndex) + "]"
			top.nextIndex++
			return p
		}
		if top.pendingKey != "" || !top.expectingKey {
			return joinProp(top.path, top.pendingKey)
		}
		return top.path
	default:
		return top.path
	}
}

func joinProp(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
