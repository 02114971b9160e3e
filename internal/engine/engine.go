// Package engine defines the streaming token contract shared by all
// input drivers and the decoder that turns a token stream into an
// order-preserving value tree.
package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
// Offset is -1 when the driver cannot report one.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is the minimal streaming interface a driver implements.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Pair is one key/value entry of a decoded object. Objects decode to
// []Pair rather than a map so that input order survives decoding.
type Pair struct {
	Key string
	Val any
}

// NumberConv converts the textual form of a number token into its
// in-memory representation.
type NumberConv func(string) (any, error)

// NumberAsJSONNumber keeps numbers textual, deferring interpretation to
// whoever knows the declared type.
func NumberAsJSONNumber(s string) (any, error) { return json.Number(s), nil }

// NumberAsFloat64 eagerly parses numbers as float64.
func NumberAsFloat64(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeOrderedFromSource builds a value tree from src preserving object
// key order: objects become []Pair, arrays []any, numbers pass through
// conv. A nil conv defaults to NumberAsJSONNumber.
func DecodeOrderedFromSource(src TokenSource, conv NumberConv) (any, error) {
	if conv == nil {
		conv = NumberAsJSONNumber
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok, conv)
}

func decodeValue(src TokenSource, tok Token, conv NumberConv) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src, conv)
	case KindBeginArray:
		return decodeArray(src, conv)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource, conv NumberConv) (any, error) {
	pairs := []Pair{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return pairs, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(src, vt, conv)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: tok.String, Val: v})
	}
}

func decodeArray(src TokenSource, conv NumberConv) (any, error) {
	var arr []any
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok, conv)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}
