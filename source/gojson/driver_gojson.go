// Package gojson adapts the goccy/go-json streaming decoder to the
// engine token contract and exposes it as a dynaprop.JSONDriver.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	dynaprop "github.com/reoring/dynaprop"
	eng "github.com/reoring/dynaprop/internal/engine"
)

// Driver returns a dynaprop.JSONDriver backed by goccy/go-json.
func Driver() dynaprop.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) dynaprop.Source {
	return dynaprop.SourceFromEngine(NewReader(r), dynaprop.NumberJSONNumber)
}
func (driverGoJSON) NewBytes(b []byte) dynaprop.Source {
	return dynaprop.SourceFromEngine(NewBytes(b), dynaprop.NumberJSONNumber)
}
func (driverGoJSON) Name() string { return "go-json" }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if err == io.EOF {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}

	if d, ok := tok.(j.Delim); ok {
		return s.delim(byte(d)), nil
	}
	if str, ok := tok.(string); ok && s.expectingKey() {
		s.stack[len(s.stack)-1].expectingKey = false
		return eng.Token{Kind: eng.KindKey, String: str, Offset: -1}, nil
	}
	s.valueRead()
	switch v := tok.(type) {
	case string:
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	default: // nil
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	}
}

func (s *source) delim(d byte) eng.Token {
	switch d {
	case '{':
		s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
		return eng.Token{Kind: eng.KindBeginObject, Offset: -1}
	case '[':
		s.stack = append(s.stack, frame{kind: kindArray})
		return eng.Token{Kind: eng.KindBeginArray, Offset: -1}
	case '}':
		s.pop()
		s.valueRead()
		return eng.Token{Kind: eng.KindEndObject, Offset: -1}
	default: // ']'
		s.pop()
		s.valueRead()
		return eng.Token{Kind: eng.KindEndArray, Offset: -1}
	}
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
}

func (s *source) expectingKey() bool {
	n := len(s.stack)
	return n > 0 && s.stack[n-1].kind == kindObject && s.stack[n-1].expectingKey
}

func (s *source) valueRead() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) Location() int64 { return -1 }
