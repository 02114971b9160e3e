// Package shapefile loads interface definitions from descriptor
// documents, so shapes can come from configuration instead of Go source.
// Documents are YAML (JSON is a subset yaml.v3 accepts) and list
// interfaces with their properties and behavior methods:
//
//	interfaces:
//	  - name: Contact
//	    properties:
//	      - name: email
//	        type: string
//	      - name: scores
//	        type: "[]int"
//	        fixed: true
//	      - name: address
//	        type: Address
//	    behaviors:
//	      - name: Render
//	        params: [string]
//	        results: [string, error]
//
// A property type is spelled the Go way: a primitive name, "string",
// "any", "[]T", "map[string]T", or an interface name declared elsewhere.
package shapefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/dynaprop/shape"
)

// Document is the top-level descriptor layout.
type Document struct {
	Interfaces []Interface `yaml:"interfaces"`
}

// Interface describes one interface definition.
type Interface struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties"`
	Behaviors  []Behavior `yaml:"behaviors"`
}

// Property describes one declared property.
type Property struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Access is "rw" (default), "ro" or "wo".
	Access string `yaml:"access"`
	// Indexed adds element accessors (At) for a sequence property.
	Indexed bool `yaml:"indexed"`
	// Keyed adds element accessors (For) for a mapped property.
	Keyed bool `yaml:"keyed"`
	// Fixed switches a sequence property to fixed-size array semantics
	// and implies Indexed.
	Fixed bool `yaml:"fixed"`
}

// Behavior describes a method outside the accessor conventions.
type Behavior struct {
	Name    string   `yaml:"name"`
	Params  []string `yaml:"params"`
	Results []string `yaml:"results"`
}

// Error reports a descriptor that cannot be loaded.
type Error struct {
	Iface string
	Prop  string
	Msg   string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("shapefile: ")
	if e.Iface != "" {
		b.WriteString("interface ")
		b.WriteString(e.Iface)
		b.WriteString(": ")
	}
	if e.Prop != "" {
		b.WriteString("property ")
		b.WriteString(e.Prop)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	return b.String()
}

// LoadBytes parses one descriptor document. Unknown document fields are
// rejected.
func LoadBytes(b []byte) ([]shape.Def, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &Error{Msg: "empty document"}
		}
		return nil, fmt.Errorf("shapefile: %w", err)
	}
	return buildDefs(doc)
}

// Load reads and parses one descriptor document.
func Load(r io.Reader) ([]shape.Def, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("shapefile: %w", err)
	}
	return LoadBytes(b)
}

// LoadFile reads and parses the descriptor at path.
func LoadFile(path string) ([]shape.Def, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shapefile: %w", err)
	}
	return LoadBytes(b)
}

// RegisterAll records every def in reg, so interface-typed properties
// can refer to each other by name.
func RegisterAll(reg *shape.Registry, defs []shape.Def) error {
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func buildDefs(doc Document) ([]shape.Def, error) {
	if len(doc.Interfaces) == 0 {
		return nil, &Error{Msg: "document declares no interfaces"}
	}
	seen := make(map[string]struct{}, len(doc.Interfaces))
	out := make([]shape.Def, 0, len(doc.Interfaces))
	for _, iface := range doc.Interfaces {
		if iface.Name == "" {
			return nil, &Error{Msg: "interface without a name"}
		}
		if _, dup := seen[iface.Name]; dup {
			return nil, &Error{Iface: iface.Name, Msg: "declared twice"}
		}
		seen[iface.Name] = struct{}{}
		def, err := buildDef(iface)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func buildDef(iface Interface) (shape.Def, error) {
	b := shape.NewDef(iface.Name)
	for _, p := range iface.Properties {
		if p.Name == "" {
			return shape.Def{}, &Error{Iface: iface.Name, Msg: "property without a name"}
		}
		t, err := ParseType(p.Type)
		if err != nil {
			return shape.Def{}, &Error{Iface: iface.Name, Prop: p.Name, Msg: err.Error()}
		}
		switch p.Access {
		case "", "rw":
			b.Accessor(p.Name, t)
		case "ro":
			b.Getter(p.Name, t)
		case "wo":
			b.Setter(p.Name, t)
		default:
			return shape.Def{}, &Error{Iface: iface.Name, Prop: p.Name, Msg: "access must be rw, ro or wo"}
		}
		if p.Fixed {
			if t.Kind != shape.List {
				return shape.Def{}, &Error{Iface: iface.Name, Prop: p.Name, Msg: "fixed requires a sequence type"}
			}
			b.Indexed(p.Name, t.ElemType())
			b.MarkFixed(p.Name)
			continue
		}
		if p.Indexed {
			if t.Kind != shape.List {
				return shape.Def{}, &Error{Iface: iface.Name, Prop: p.Name, Msg: "indexed requires a sequence type"}
			}
			b.Indexed(p.Name, t.ElemType())
		}
		if p.Keyed {
			if t.Kind != shape.Map {
				return shape.Def{}, &Error{Iface: iface.Name, Prop: p.Name, Msg: "keyed requires a map type"}
			}
			b.Keyed(p.Name, t.ElemType())
		}
	}
	for _, beh := range iface.Behaviors {
		if beh.Name == "" {
			return shape.Def{}, &Error{Iface: iface.Name, Msg: "behavior without a name"}
		}
		params, err := parseTypeList(beh.Params)
		if err != nil {
			return shape.Def{}, &Error{Iface: iface.Name, Prop: beh.Name, Msg: err.Error()}
		}
		results, err := parseTypeList(beh.Results)
		if err != nil {
			return shape.Def{}, &Error{Iface: iface.Name, Prop: beh.Name, Msg: err.Error()}
		}
		b.Behavior(beh.Name, params, results)
	}
	return b.Build(), nil
}

func parseTypeList(specs []string) ([]shape.Type, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]shape.Type, len(specs))
	for i, s := range specs {
		t, err := ParseType(s)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// ParseType parses the textual type spelling used by descriptors.
func ParseType(s string) (shape.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return shape.Type{}, fmt.Errorf("missing type")
	case strings.HasPrefix(s, "[]"):
		elem, err := ParseType(s[2:])
		if err != nil {
			return shape.Type{}, err
		}
		if !elem.Kind.IsScalar() {
			return shape.Type{}, fmt.Errorf("sequence element must be a scalar type, not %q", s[2:])
		}
		return shape.ListOf(elem), nil
	case strings.HasPrefix(s, "map[string]"):
		elem, err := ParseType(s[len("map[string]"):])
		if err != nil {
			return shape.Type{}, err
		}
		if !elem.Kind.IsScalar() {
			return shape.Type{}, fmt.Errorf("map element must be a scalar type, not %q", s[len("map[string]"):])
		}
		return shape.MapOf(elem), nil
	}
	switch s {
	case "bool":
		return shape.Of(shape.Bool), nil
	case "byte":
		return shape.Of(shape.Byte), nil
	case "int16":
		return shape.Of(shape.Int16), nil
	case "rune":
		return shape.Of(shape.Rune), nil
	case "int":
		return shape.Of(shape.Int), nil
	case "int64":
		return shape.Of(shape.Int64), nil
	case "float32":
		return shape.Of(shape.Float32), nil
	case "float64":
		return shape.Of(shape.Float64), nil
	case "string":
		return shape.Of(shape.String), nil
	case "any":
		return shape.Any(), nil
	case "error":
		return shape.Of(shape.Error), nil
	}
	if !isIdent(s) {
		return shape.Type{}, fmt.Errorf("cannot parse type %q", s)
	}
	return shape.Iface(s), nil
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}
