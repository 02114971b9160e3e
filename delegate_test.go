package dynaprop_test

import (
	"strings"
	"testing"

	dynaprop "github.com/reoring/dynaprop"
	"github.com/reoring/dynaprop/shape"
)

func greeterDef() shape.Def {
	return shape.NewDef("Greeter").
		Behavior("Greet", []shape.Type{shape.Of(shape.String)}, []shape.Type{shape.Of(shape.String)}).
		Build()
}

func TestBehaviorDelegate_CoversAndRoutes(t *testing.T) {
	greeter := dynaprop.BehaviorFunc(greeterDef(), func(st *dynaprop.Store, method string, args []any) (any, error) {
		name, _ := st.Get("name")
		greeting, _ := args[0].(string)
		return greeting + ", " + name.(string), nil
	})
	inst := mustContact(t, dynaprop.Config{Delegates: []dynaprop.Delegate{greeter}})

	// The delegate's interface merges into the instance.
	if !inst.Implements("Greeter") {
		t.Fatalf("delegate interface not merged")
	}
	if err := inst.Set("name", "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := inst.Call("Greet", "hello")
	if err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if v != "hello, alice" {
		t.Fatalf("Greet = %v", v)
	}
}

func TestBehaviorDelegate_UncoveredBehaviorFailsConstruction(t *testing.T) {
	def := shape.NewDef("Renderer").
		Accessor("name", shape.Of(shape.String)).
		Behavior("Render", []shape.Type{shape.Of(shape.String)}, []shape.Type{shape.Of(shape.String)}).
		Build()
	_, err := dynaprop.New(def, dynaprop.Config{Registry: shape.NewRegistry()})
	if !dynaprop.HasCode(err, dynaprop.CodeUnsupportedBehavior) {
		t.Fatalf("expected unsupported_behavior, got %v", err)
	}
}

// fullNameDelegate derives one read-only property from two stored ones.
type fullNameDelegate struct{}

func (fullNameDelegate) DeclaredInterface() shape.Def {
	return shape.NewDef("Named").
		Accessor("fullName", shape.Of(shape.String)).
		Build()
}

func (fullNameDelegate) GetProperty(st *dynaprop.Store, name string) (any, error) {
	first, _ := st.Get("first")
	last, _ := st.Get("last")
	return strings.TrimSpace(first.(string) + " " + last.(string)), nil
}

func (fullNameDelegate) SetProperty(st *dynaprop.Store, name string, value any) error {
	s, _ := value.(string)
	first, last, _ := strings.Cut(s, " ")
	if err := st.Set("first", first); err != nil {
		return err
	}
	return st.Set("last", last)
}

func TestPropertyDelegate_DerivedProperty(t *testing.T) {
	def := shape.NewDef("Person").
		Accessor("first", shape.Of(shape.String)).
		Accessor("last", shape.Of(shape.String)).
		Build()
	inst, err := dynaprop.New(def, dynaprop.Config{
		Registry:  shape.NewRegistry(),
		Delegates: []dynaprop.Delegate{fullNameDelegate{}},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := inst.Set("first", "Ada"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := inst.Set("last", "Lovelace"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := inst.Get("fullName")
	if err != nil {
		t.Fatalf("get derived: %v", err)
	}
	if v != "Ada Lovelace" {
		t.Fatalf("fullName = %v", v)
	}
	// Writing the derived property fans out to the stored ones.
	if err := inst.Set("fullName", "Grace Hopper"); err != nil {
		t.Fatalf("set derived: %v", err)
	}
	if v, _ := inst.Get("first"); v != "Grace" {
		t.Fatalf("first = %v", v)
	}
	if v, _ := inst.Get("last"); v != "Hopper" {
		t.Fatalf("last = %v", v)
	}
}

func TestDelegates_ReachVivifiedInstances(t *testing.T) {
	greeter := dynaprop.BehaviorFunc(greeterDef(), func(st *dynaprop.Store, method string, args []any) (any, error) {
		return "hi", nil
	})
	inst := mustContact(t, dynaprop.Config{Delegates: []dynaprop.Delegate{greeter}})
	if err := inst.Set("address.city", "Kyoto"); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, _ := inst.Get("address")
	nested := raw.(*dynaprop.Instance)
	if !nested.Implements("Greeter") {
		t.Fatalf("delegates must propagate to vivified instances")
	}
	if v, err := nested.Call("Greet", "x"); err != nil || v != "hi" {
		t.Fatalf("nested Greet = %v, %v", v, err)
	}
}
