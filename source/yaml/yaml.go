// Package yaml adapts YAML documents to the engine token contract. The
// document is parsed into a yaml.Node tree, which preserves mapping key
// order, and the tree is walked into the same token stream the JSON
// drivers produce, so enforcement and ordered decoding work unchanged.
package yaml

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/dynaprop/internal/engine"
)

type yamlSource struct {
	toks []eng.Token
	pos  int
	err  error
}

// NewBytes parses b and returns an engine.TokenSource over its tokens.
// Parse errors surface from the first NextToken call.
func NewBytes(b []byte) eng.TokenSource {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return &yamlSource{err: err}
	}
	s := &yamlSource{}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			s.toks = append(s.toks, eng.Token{Kind: eng.KindNull, Offset: -1})
			return s
		}
		node = node.Content[0]
	}
	if err := s.emit(node); err != nil {
		return &yamlSource{err: err}
	}
	return s
}

// NewReader reads r to completion and tokenizes it.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &yamlSource{err: err}
	}
	return NewBytes(b)
}

func (s *yamlSource) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	if s.pos >= len(s.toks) {
		return eng.Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func (s *yamlSource) Location() int64 { return -1 }

func (s *yamlSource) emit(n *yaml.Node) error {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		s.toks = append(s.toks, eng.Token{Kind: eng.KindBeginObject, Offset: -1})
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			for key.Kind == yaml.AliasNode && key.Alias != nil {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("yaml: mapping key at line %d is not a scalar", key.Line)
			}
			s.toks = append(s.toks, eng.Token{Kind: eng.KindKey, String: key.Value, Offset: -1})
			if err := s.emit(n.Content[i+1]); err != nil {
				return err
			}
		}
		s.toks = append(s.toks, eng.Token{Kind: eng.KindEndObject, Offset: -1})
		return nil
	case yaml.SequenceNode:
		s.toks = append(s.toks, eng.Token{Kind: eng.KindBeginArray, Offset: -1})
		for _, c := range n.Content {
			if err := s.emit(c); err != nil {
				return err
			}
		}
		s.toks = append(s.toks, eng.Token{Kind: eng.KindEndArray, Offset: -1})
		return nil
	case yaml.ScalarNode:
		s.toks = append(s.toks, scalarToken(n))
		return nil
	default:
		return fmt.Errorf("yaml: unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

// scalarToken classifies a scalar by its resolved tag. Unresolvable
// scalars fall back to strings, matching yaml.v3's own decoding.
func scalarToken(n *yaml.Node) eng.Token {
	switch n.Tag {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}
	case "!!bool":
		b := n.Value == "true" || n.Value == "True" || n.Value == "TRUE"
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}
	case "!!int", "!!float":
		return eng.Token{Kind: eng.KindNumber, Number: n.Value, Offset: -1}
	default:
		return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}
	}
}
