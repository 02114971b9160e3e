package dynaprop

import (
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ExportValues renders an instance graph as nested Values in shape
// declaration order. Presence is preserved: unset properties are
// omitted, properties explicitly set to null appear with a nil value.
func ExportValues(in *Instance) *Values {
	out := NewValues()
	if in == nil {
		return out
	}
	st := in.st
	for _, name := range st.comb.order {
		v, ok := st.Value(name)
		if !ok {
			continue
		}
		pres := st.pres[name]
		if !pres.Has(PresenceSeen) {
			if _, delegated := st.cfg.propDels[name]; !delegated {
				continue
			}
		}
		out.Add(name, exportValue(v))
	}
	return out
}

func exportValue(v any) any {
	switch x := v.(type) {
	case *Instance:
		return ExportValues(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = exportValue(e)
		}
		return out
	case *Values:
		out := NewValues()
		x.Range(func(k string, e any) bool {
			out.Add(k, exportValue(e))
			return true
		})
		return out
	default:
		return v
	}
}

// ExportJSON marshals the instance graph as a JSON document through the
// go-json encoder.
func ExportJSON(in *Instance) ([]byte, error) {
	return j.Marshal(ExportValues(in))
}

// MarshalJSON implements json.Marshaler over the exported graph.
func (in *Instance) MarshalJSON() ([]byte, error) { return ExportJSON(in) }

// ExportYAML marshals the instance graph as a YAML document, keeping
// declaration order.
func ExportYAML(in *Instance) ([]byte, error) {
	return yaml.Marshal(ExportValues(in))
}

// MarshalYAML implements yaml.Marshaler, rendering the collection as an
// ordered mapping node.
func (v *Values) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if v == nil {
		return node, nil
	}
	var err error
	v.Range(func(k string, e any) bool {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if e == nil {
			valNode.Kind = yaml.ScalarNode
			valNode.Tag = "!!null"
			valNode.Value = "null"
		} else if encErr := valNode.Encode(e); encErr != nil {
			err = encErr
			return false
		}
		node.Content = append(node.Content, keyNode, valNode)
		return true
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}
