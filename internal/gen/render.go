// Package gen renders Go interface declarations from shape definitions.
// It backs the gen subcommand of cmd/dynaprop: a shapefile descriptor in,
// a compilable Go source file out. This package is internal and not part
// of the public API.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"

	"github.com/reoring/dynaprop/shape"
)

// RenderFile renders one Go source file declaring every def as an
// interface type. Output is gofmt-formatted.
func RenderFile(pkg string, defs []shape.Def) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("gen: missing package name")
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("gen: no definitions to render")
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by dynaprop gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	for i, def := range defs {
		if i > 0 {
			b.WriteByte('\n')
		}
		if err := renderDef(&b, def); err != nil {
			return nil, err
		}
	}
	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: rendered source does not format: %w", err)
	}
	return out, nil
}

func renderDef(b *bytes.Buffer, def shape.Def) error {
	if def.Name == "" {
		return fmt.Errorf("gen: definition has no interface name")
	}
	if len(def.Fixed) > 0 {
		fixed := append([]string(nil), def.Fixed...)
		sort.Strings(fixed)
		fmt.Fprintf(b, "// Fixed-size sequence properties: %v.\n", fixed)
	}
	fmt.Fprintf(b, "type %s interface {\n", def.Name)
	for _, m := range def.Methods {
		fmt.Fprintf(b, "\t%s(%s)%s\n", m.Name, typeList(m.Params), resultList(m.Results))
	}
	fmt.Fprintf(b, "}\n")
	return nil
}

func typeList(ts []shape.Type) string {
	var b bytes.Buffer
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(goType(t))
	}
	return b.String()
}

func resultList(ts []shape.Type) string {
	switch len(ts) {
	case 0:
		return ""
	case 1:
		return " " + goType(ts[0])
	default:
		return " (" + typeList(ts) + ")"
	}
}

func goType(t shape.Type) string {
	switch t.Kind {
	case shape.Bool:
		return "bool"
	case shape.Byte:
		return "byte"
	case shape.Int16:
		return "int16"
	case shape.Rune:
		return "rune"
	case shape.Int:
		return "int"
	case shape.Int64:
		return "int64"
	case shape.Float32:
		return "float32"
	case shape.Float64:
		return "float64"
	case shape.String:
		return "string"
	case shape.Error:
		return "error"
	case shape.Interface:
		return t.Iface
	case shape.List, shape.Array:
		return "[]" + goType(t.ElemType())
	case shape.Map:
		return "map[string]" + goType(t.ElemType())
	default:
		return "any"
	}
}
