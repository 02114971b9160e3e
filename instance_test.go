package dynaprop_test

import (
	"strings"
	"testing"

	dynaprop "github.com/reoring/dynaprop"
	"github.com/reoring/dynaprop/shape"
)

func addressDef() shape.Def {
	return shape.NewDef("Address").
		Accessor("city", shape.Of(shape.String)).
		Accessor("zip", shape.Of(shape.String)).
		Build()
}

func contactDef() shape.Def {
	return shape.NewDef("Contact").
		Accessor("name", shape.Of(shape.String)).
		Accessor("age", shape.Of(shape.Int)).
		Accessor("active", shape.Of(shape.Bool)).
		List("tags", shape.Of(shape.String)).
		List("contacts", shape.Iface("Address")).
		FixedArray("scores", shape.Of(shape.Int)).
		Mapped("attrs", shape.Of(shape.String)).
		Accessor("address", shape.Iface("Address")).
		Build()
}

func newRegistry(t *testing.T) *shape.Registry {
	t.Helper()
	reg := shape.NewRegistry()
	if err := reg.Register(addressDef()); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func mustContact(t *testing.T, cfgs ...dynaprop.Config) *dynaprop.Instance {
	t.Helper()
	cfgs = append([]dynaprop.Config{{Registry: newRegistry(t)}}, cfgs...)
	inst, err := dynaprop.New(contactDef(), cfgs...)
	if err != nil {
		t.Fatalf("new contact: %v", err)
	}
	return inst
}

func TestCall_PlainAccessors(t *testing.T) {
	inst := mustContact(t)
	if _, err := inst.Call("SetName", "alice"); err != nil {
		t.Fatalf("SetName: %v", err)
	}
	v, err := inst.Call("Name")
	if err != nil || v != "alice" {
		t.Fatalf("Name = %v, %v", v, err)
	}
	// Unset primitive getters answer the kind's zero value.
	if v, err := inst.Call("Age"); err != nil || v != 0 {
		t.Fatalf("Age = %v, %v", v, err)
	}
	if v, err := inst.Call("Active"); err != nil || v != false {
		t.Fatalf("Active = %v, %v", v, err)
	}
}

func TestCall_IndexedAccessors(t *testing.T) {
	inst := mustContact(t)
	if _, err := inst.Call("SetScores", []int{1, 2}); err != nil {
		t.Fatalf("SetScores: %v", err)
	}
	if v, err := inst.Call("ScoresAt", 1); err != nil || v != 2 {
		t.Fatalf("ScoresAt(1) = %v, %v", v, err)
	}
	if _, err := inst.Call("SetScoresAt", 0, 9); err != nil {
		t.Fatalf("SetScoresAt: %v", err)
	}
	if v, _ := inst.Call("ScoresAt", 0); v != 9 {
		t.Fatalf("ScoresAt(0) = %v", v)
	}
	if v, _ := inst.Call("ScoresAt", 1); v != 2 {
		t.Fatalf("ScoresAt(1) after sibling write = %v", v)
	}
}

func TestCall_KeyedAccessors(t *testing.T) {
	inst := mustContact(t)
	if _, err := inst.Call("SetAttrsFor", "color", "red"); err != nil {
		t.Fatalf("SetAttrsFor: %v", err)
	}
	if v, err := inst.Call("AttrsFor", "color"); err != nil || v != "red" {
		t.Fatalf("AttrsFor = %v, %v", v, err)
	}
	// A missing key answers the element zero value.
	if v, err := inst.Call("AttrsFor", "shade"); err != nil || v != "" {
		t.Fatalf("AttrsFor(missing) = %v, %v", v, err)
	}
}

func TestCall_UnknownMethodAndBadArguments(t *testing.T) {
	inst := mustContact(t)
	if _, err := inst.Call("Nope"); !dynaprop.HasCode(err, dynaprop.CodeUnknownMethod) {
		t.Fatalf("expected unknown_method, got %v", err)
	}
	if _, err := inst.Call("SetName"); !dynaprop.HasCode(err, dynaprop.CodeBadArgument) {
		t.Fatalf("expected bad_argument for arity, got %v", err)
	}
	if _, err := inst.Call("ScoresAt", "zero"); !dynaprop.HasCode(err, dynaprop.CodeBadArgument) {
		t.Fatalf("expected bad_argument for index type, got %v", err)
	}
}

func TestCall_NestedInstanceRouting(t *testing.T) {
	inst := mustContact(t)
	if err := inst.Set("address.city", "Kyoto"); err != nil {
		t.Fatalf("set nested: %v", err)
	}
	raw, err := inst.Call("Address")
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	nested, ok := raw.(*dynaprop.Instance)
	if !ok {
		t.Fatalf("Address = %T", raw)
	}
	if nested.Depth() != 1 {
		t.Fatalf("nested depth = %d", nested.Depth())
	}
	// Writes through the nested instance land in its own store and are
	// visible through the parent path.
	if _, err := nested.Call("SetZip", "600"); err != nil {
		t.Fatalf("SetZip: %v", err)
	}
	if v, _ := inst.Get("address.zip"); v != "600" {
		t.Fatalf("address.zip = %v", v)
	}
}

func TestEqualHash_ContentIdentity(t *testing.T) {
	vals := dynaprop.NewValues().
		Add("name", "alice").
		Add("address.city", "Kyoto")
	a := mustContact(t, dynaprop.Config{Values: vals})
	b := mustContact(t, dynaprop.Config{Values: vals.Clone()})

	if !a.Equal(b) {
		t.Fatalf("instances with equal stores must compare equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("equal instances must hash alike")
	}
	if err := b.Set("name", "bob"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if a.Equal(b) {
		t.Fatalf("instances with different stores must differ")
	}
	if got, err := a.Call("Equal", b); err != nil || got != false {
		t.Fatalf("Call(Equal) = %v, %v", got, err)
	}
}

func TestString_Rendering(t *testing.T) {
	inst := mustContact(t, dynaprop.Config{Values: dynaprop.NewValues().Add("name", "alice")})
	s := inst.String()
	if !strings.HasPrefix(s, "Contact{") || !strings.Contains(s, `name: "alice"`) {
		t.Fatalf("String() = %q", s)
	}
}

func TestImplements_And_Shapes(t *testing.T) {
	inst := mustContact(t)
	if !inst.Implements("Contact") {
		t.Fatalf("instance must implement its primary interface")
	}
	if inst.Implements("Address") {
		t.Fatalf("instance must not claim interfaces it does not carry")
	}
	if inst.Shape().Name() != "Contact" {
		t.Fatalf("primary shape = %s", inst.Shape().Name())
	}
}

type goContact interface {
	Name() string
	SetName(string)
	Score() int
	SetScore(int)
}

func TestNewFor_ReflectedInterface(t *testing.T) {
	inst, err := dynaprop.NewFor[goContact](dynaprop.Config{Registry: shape.NewRegistry()})
	if err != nil {
		t.Fatalf("NewFor: %v", err)
	}
	if _, err := inst.Call("SetScore", 41); err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	if v, _ := inst.Call("Score"); v != 41 {
		t.Fatalf("Score = %v", v)
	}
}
