package jsonschema_test

import (
	"testing"

	"github.com/reoring/dynaprop/jsonschema"
	"github.com/reoring/dynaprop/shape"
)

func TestFromShape_KindProjection(t *testing.T) {
	reg := shape.NewRegistry()
	if err := reg.Register(shape.NewDef("Address").
		Accessor("city", shape.Of(shape.String)).
		Build()); err != nil {
		t.Fatalf("register: %v", err)
	}
	def := shape.NewDef("Contact").
		Accessor("name", shape.Of(shape.String)).
		Accessor("age", shape.Of(shape.Int)).
		Accessor("ratio", shape.Of(shape.Float64)).
		Accessor("active", shape.Of(shape.Bool)).
		List("tags", shape.Of(shape.String)).
		Mapped("attrs", shape.Of(shape.String)).
		Accessor("address", shape.Iface("Address")).
		Build()
	s, err := reg.Resolve(def)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	sch, err := jsonschema.FromShape(s, reg)
	if err != nil {
		t.Fatalf("from shape: %v", err)
	}
	if sch.Type != "object" {
		t.Fatalf("root type = %s", sch.Type)
	}
	want := map[string]string{
		"name":   "string",
		"age":    "integer",
		"ratio":  "number",
		"active": "boolean",
		"tags":   "array",
		"attrs":  "object",
	}
	for prop, typ := range want {
		ps, ok := sch.Properties[prop]
		if !ok || ps.Type != typ {
			t.Fatalf("%s schema = %+v want type %s", prop, ps, typ)
		}
	}
	if sch.Properties["tags"].Items == nil || sch.Properties["tags"].Items.Type != "string" {
		t.Fatalf("tags items = %+v", sch.Properties["tags"].Items)
	}
	if ap, ok := sch.Properties["attrs"].AdditionalProperties.(*jsonschema.Schema); !ok || ap.Type != "string" {
		t.Fatalf("attrs additionalProperties = %+v", sch.Properties["attrs"].AdditionalProperties)
	}
	addr := sch.Properties["address"]
	if addr.Type != "object" || addr.Properties["city"] == nil {
		t.Fatalf("nested interface schema = %+v", addr)
	}
}

func TestFromShape_SelfReferenceTerminates(t *testing.T) {
	reg := shape.NewRegistry()
	def := shape.NewDef("Node").
		Accessor("label", shape.Of(shape.String)).
		Accessor("next", shape.Iface("Node")).
		Build()
	s, err := reg.Resolve(def)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	sch, err := jsonschema.FromShape(s, reg)
	if err != nil {
		t.Fatalf("from shape: %v", err)
	}
	next := sch.Properties["next"]
	if next == nil || next.Type != "object" {
		t.Fatalf("next schema = %+v", next)
	}
	// The recursive occurrence renders as a bare object.
	if next.Properties != nil {
		t.Fatalf("self reference must not expand: %+v", next)
	}
}
