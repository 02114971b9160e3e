package jsonschema

import (
	"fmt"

	"github.com/reoring/dynaprop/shape"
)

// FromShape projects an introspected shape onto a JSON Schema document.
// Interface-typed properties resolve through reg; self-referential
// graphs render nested occurrences as a bare object schema instead of
// recursing forever.
func FromShape(s *shape.Shape, reg *shape.Registry) (*Schema, error) {
	if reg == nil {
		reg = shape.Default()
	}
	return fromShape(s, reg, map[string]bool{s.Name(): true})
}

func fromShape(s *shape.Shape, reg *shape.Registry, inProgress map[string]bool) (*Schema, error) {
	out := &Schema{Type: "object", Properties: map[string]*Schema{}, AdditionalProperties: false}
	for _, p := range s.Props() {
		ps, err := fromType(p.Type, reg, inProgress)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		out.Properties[p.Name] = ps
	}
	return out, nil
}

func fromType(t shape.Type, reg *shape.Registry, inProgress map[string]bool) (*Schema, error) {
	switch t.Kind {
	case shape.Bool:
		return &Schema{Type: "boolean"}, nil
	case shape.Byte, shape.Int16, shape.Rune, shape.Int, shape.Int64:
		return &Schema{Type: "integer"}, nil
	case shape.Float32, shape.Float64:
		return &Schema{Type: "number"}, nil
	case shape.String:
		return &Schema{Type: "string"}, nil
	case shape.Opaque:
		return &Schema{}, nil
	case shape.List:
		elem, err := fromType(t.ElemType(), reg, inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: elem}, nil
	case shape.Array:
		elem, err := fromType(t.ElemType(), reg, inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: elem}, nil
	case shape.Map:
		elem, err := fromType(t.ElemType(), reg, inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: elem}, nil
	case shape.Interface:
		if inProgress[t.Iface] {
			return &Schema{Type: "object"}, nil
		}
		nested, err := reg.ResolveRef(t)
		if err != nil {
			return nil, err
		}
		inProgress[t.Iface] = true
		out, err := fromShape(nested, reg, inProgress)
		delete(inProgress, t.Iface)
		return out, err
	default:
		return nil, fmt.Errorf("type %s has no JSON Schema projection", t)
	}
}
