// Package json adapts the encoding/json streaming decoder to the engine
// token contract. It is the fallback driver; importing the source
// package installs the go-json driver instead.
package json

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/dynaprop/internal/engine"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type jsonSource struct {
	dec        *json.Decoder
	stack      []frame
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	if d, ok := tok.(json.Delim); ok {
		return s.delim(byte(d)), nil
	}

	// A string in key position is a key; everything else is a value and
	// flips the enclosing object back to expecting a key.
	if str, ok := tok.(string); ok && s.expectingKey() {
		s.keyRead()
		return eng.Token{Kind: eng.KindKey, String: str, Offset: s.lastOffset}, nil
	}
	s.valueRead()
	switch v := tok.(type) {
	case string:
		return eng.Token{Kind: eng.KindString, String: v, Offset: s.lastOffset}, nil
	case bool:
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: s.lastOffset}, nil
	case json.Number:
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: s.lastOffset}, nil
	case float64:
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}, nil
	default: // nil
		return eng.Token{Kind: eng.KindNull, Offset: s.lastOffset}, nil
	}
}

func (s *jsonSource) delim(d byte) eng.Token {
	switch d {
	case '{':
		s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
		return eng.Token{Kind: eng.KindBeginObject, Offset: s.lastOffset}
	case '[':
		s.stack = append(s.stack, frame{kind: kindArray})
		return eng.Token{Kind: eng.KindBeginArray, Offset: s.lastOffset}
	case '}':
		s.pop()
		s.valueRead()
		return eng.Token{Kind: eng.KindEndObject, Offset: s.lastOffset}
	default: // ']'
		s.pop()
		s.valueRead()
		return eng.Token{Kind: eng.KindEndArray, Offset: s.lastOffset}
	}
}

func (s *jsonSource) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

func (s *jsonSource) expectingKey() bool {
	n := len(s.stack)
	return n > 0 && s.stack[n-1].kind == kindObject && s.stack[n-1].expectingKey
}

func (s *jsonSource) keyRead() {
	s.stack[len(s.stack)-1].expectingKey = false
}

// valueRead flips the enclosing object back to key position after a
// complete value.
func (s *jsonSource) valueRead() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
