package dynaprop_test

import (
	"strconv"
	"testing"

	dynaprop "github.com/reoring/dynaprop"
	"github.com/reoring/dynaprop/shape"
)

func TestStore_SetGetRoundTrip(t *testing.T) {
	inst := mustContact(t)
	cases := []struct {
		path string
		val  any
	}{
		{"name", "alice"},
		{"age", 30},
		{"active", true},
		{"address.city", "Kyoto"},
		{"attrs[color]", "red"},
		{"tags[0]", "ops"},
	}
	for _, c := range cases {
		if err := inst.Set(c.path, c.val); err != nil {
			t.Fatalf("set %s: %v", c.path, err)
		}
		got, err := inst.Get(c.path)
		if err != nil {
			t.Fatalf("get %s: %v", c.path, err)
		}
		if got != c.val {
			t.Fatalf("get %s = %v want %v", c.path, got, c.val)
		}
	}
}

func TestStore_AutoVivifyOnWriteOnly(t *testing.T) {
	inst := mustContact(t)
	// Reads never create structure.
	if _, err := inst.Get("address.city"); !dynaprop.HasCode(err, dynaprop.CodeInvalidPath) {
		t.Fatalf("expected invalid_path for read through missing instance, got %v", err)
	}
	if ok, _ := inst.Store().Has("address"); ok {
		t.Fatalf("failed read must not vivify")
	}
	// Writes create the intermediate instance.
	if err := inst.Set("address.city", "Kyoto"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, _ := inst.Store().Has("address"); !ok {
		t.Fatalf("write must vivify the intermediate instance")
	}
}

func TestStore_FailedPutLeavesStoreUntouched(t *testing.T) {
	inst := mustContact(t)
	// The leaf type check fails after the path would have vivified an
	// Address; nothing may stick.
	if err := inst.Set("address.city", 7); !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", err)
	}
	if ok, _ := inst.Store().Has("address"); ok {
		t.Fatalf("failed put must not leave vivified structure behind")
	}
	if err := inst.Set("tags[3]", 7); !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", err)
	}
	if v, _ := inst.Get("tags"); v != nil {
		t.Fatalf("failed put must not grow the sequence, got %v", v)
	}
}

func TestStore_GrowableGrowthFillsDefaults(t *testing.T) {
	inst := mustContact(t)
	if err := inst.Set("tags[2]", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	list, err := inst.Get("tags")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	seq, ok := list.([]any)
	if !ok || len(seq) != 3 {
		t.Fatalf("tags = %#v", list)
	}
	if seq[0] != nil || seq[1] != nil || seq[2] != "x" {
		t.Fatalf("growth fill = %#v", seq)
	}
}

func TestStore_GrowablePrimitiveGrowthReadsZero(t *testing.T) {
	def := shape.NewDef("Stats").
		List("nums", shape.Of(shape.Int)).
		Build()
	inst, err := dynaprop.New(def)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := inst.Set("nums[2]", 5); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Growth fills with the element kind's zero, never nil.
	for i, want := range []any{0, 0, 5} {
		got, err := inst.Get("nums[" + strconv.Itoa(i) + "]")
		if err != nil || got != want {
			t.Fatalf("nums[%d] = %v, %v want %v", i, got, err, want)
		}
	}
	list, _ := inst.Get("nums")
	seq := list.([]any)
	if seq[0] != 0 || seq[1] != 0 {
		t.Fatalf("growth fill = %#v", seq)
	}
}

func TestStore_AppendFormAlwaysAppends(t *testing.T) {
	inst := mustContact(t)
	first := dynaprop.NewValues().
		Add("contacts[].city", "Kyoto").
		Add("contacts[].city", "Osaka")
	if err := inst.SetAll(first); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second := dynaprop.NewValues().Add("contacts[].city", "Nara")
	if err := inst.SetAll(second); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	list, _ := inst.Get("contacts")
	seq, ok := list.([]any)
	if !ok || len(seq) != 3 {
		t.Fatalf("contacts = %#v", list)
	}
	for i, want := range []string{"Kyoto", "Osaka", "Nara"} {
		got, err := inst.Get("contacts[" + strconv.Itoa(i) + "].city")
		if err != nil || got != want {
			t.Fatalf("contacts[%d].city = %v, %v want %s", i, got, err, want)
		}
	}
}

func TestStore_AppendEntriesShareElementWithinOneMerge(t *testing.T) {
	inst := mustContact(t)
	if err := inst.SetAll(dynaprop.NewValues().
		Add("contacts[].city", "Kyoto").
		Add("contacts[].zip", "600")); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	if err := inst.SetAll(dynaprop.NewValues().
		Add("contacts[].city", "Nara").
		Add("contacts[].zip", "630")); err != nil {
		t.Fatalf("second merge: %v", err)
	}

	list, _ := inst.Get("contacts")
	seq, ok := list.([]any)
	if !ok || len(seq) != 2 {
		t.Fatalf("contacts = %#v, want 2 elements", list)
	}
	// One bulk application fills one element; the second leaves it alone.
	for i, want := range []struct{ city, zip string }{
		{"Kyoto", "600"},
		{"Nara", "630"},
	} {
		base := "contacts[" + strconv.Itoa(i) + "]"
		if got, _ := inst.Get(base + ".city"); got != want.city {
			t.Fatalf("%s.city = %v want %s", base, got, want.city)
		}
		if got, _ := inst.Get(base + ".zip"); got != want.zip {
			t.Fatalf("%s.zip = %v want %s", base, got, want.zip)
		}
	}
}

func TestStore_NestedAppendsGroupUnderOneElement(t *testing.T) {
	reg := shape.NewRegistry()
	if err := reg.Register(shape.NewDef("Team").
		Accessor("name", shape.Of(shape.String)).
		List("tags", shape.Of(shape.String)).
		Build()); err != nil {
		t.Fatalf("register: %v", err)
	}
	def := shape.NewDef("Group").
		List("teams", shape.Iface("Team")).
		Build()
	inst, err := dynaprop.New(def, dynaprop.Config{Registry: reg})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// The first key vivifies the team element; the later keys must land
	// in that same element, not open new ones.
	if err := inst.SetAll(dynaprop.NewValues().
		Add("teams[].tags[]", "go").
		Add("teams[].name", "core").
		Add("teams[].tags[]", "oss")); err != nil {
		t.Fatalf("merge: %v", err)
	}

	list, _ := inst.Get("teams")
	if seq := list.([]any); len(seq) != 1 {
		t.Fatalf("teams = %#v, want 1 element", list)
	}
	if got, _ := inst.Get("teams[0].name"); got != "core" {
		t.Fatalf("teams[0].name = %v", got)
	}
	tags, _ := inst.Get("teams[0].tags")
	seq, ok := tags.([]any)
	if !ok || len(seq) != 2 || seq[0] != "go" || seq[1] != "oss" {
		t.Fatalf("teams[0].tags = %#v", tags)
	}
}

func TestStore_ConstructionExpandsMixedCollectionKeys(t *testing.T) {
	reg := newRegistry(t)
	newAddress := func(city string) *dynaprop.Instance {
		a, err := dynaprop.New(addressDef(), dynaprop.Config{Registry: reg})
		if err != nil {
			t.Fatalf("new address: %v", err)
		}
		if err := a.Set("city", city); err != nil {
			t.Fatalf("seed address: %v", err)
		}
		return a
	}
	second := newAddress("Nara")
	third := newAddress("Kobe")

	inst, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: reg,
		Values: dynaprop.NewValues().
			Add("contacts[0].city", "Kyoto").
			Add("contacts[1]", second).
			Add("contacts[]", third),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	list, err := inst.Get("contacts")
	if err != nil {
		t.Fatalf("get contacts: %v", err)
	}
	if n := len(list.([]any)); n != 3 {
		t.Fatalf("contacts length = %d, want 3", n)
	}
	// Index 0 is a freshly constructed element, not one of ours.
	first := list.([]any)[0].(*dynaprop.Instance)
	if first == second || first == third {
		t.Fatalf("contacts[0] should be freshly constructed")
	}
	if v, _ := inst.Get("contacts[0].city"); v != "Kyoto" {
		t.Fatalf("contacts[0].city = %v", v)
	}
	// Whole-element keys store the reference itself.
	if got := list.([]any)[1]; got != second {
		t.Fatalf("contacts[1] is not the assigned instance")
	}
	if got := list.([]any)[2]; got != third {
		t.Fatalf("contacts[2] is not the appended instance")
	}
}

func TestStore_IncrementalMergePreservesSiblings(t *testing.T) {
	inst := mustContact(t)
	if err := inst.SetAll(dynaprop.NewValues().
		Add("contacts[0].city", "Kyoto").
		Add("contacts[1].city", "Osaka")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := inst.SetAll(dynaprop.NewValues().Add("contacts[1].zip", "530")); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if v, _ := inst.Get("contacts[0].city"); v != "Kyoto" {
		t.Fatalf("untouched index lost: %v", v)
	}
	if v, _ := inst.Get("contacts[1].city"); v != "Osaka" {
		t.Fatalf("merged element lost sibling leaf: %v", v)
	}
	if v, _ := inst.Get("contacts[1].zip"); v != "530" {
		t.Fatalf("merge not applied: %v", v)
	}
}

func TestStore_FixedArraySemantics(t *testing.T) {
	inst := mustContact(t)
	// Indexed writes require a prior whole-value assignment to size the
	// array.
	if err := inst.Set("scores[0]", 1); !dynaprop.HasCode(err, dynaprop.CodeArrayBounds) {
		t.Fatalf("expected array_bounds before sizing, got %v", err)
	}
	if err := inst.Set("scores", []int{0, 0}); err != nil {
		t.Fatalf("size: %v", err)
	}
	if err := inst.Set("scores[1]", 7); err != nil {
		t.Fatalf("write: %v", err)
	}
	if v, _ := inst.Get("scores[0]"); v != 0 {
		t.Fatalf("scores[0] = %v", v)
	}
	if v, _ := inst.Get("scores[1]"); v != 7 {
		t.Fatalf("scores[1] = %v", v)
	}
	// Fixed arrays never grow.
	if err := inst.Set("scores[2]", 9); !dynaprop.HasCode(err, dynaprop.CodeArrayBounds) {
		t.Fatalf("expected array_bounds past the end, got %v", err)
	}
	if err := inst.Set("scores[]", 9); !dynaprop.HasCode(err, dynaprop.CodeArrayBounds) {
		t.Fatalf("expected array_bounds for append on fixed array, got %v", err)
	}
}

func TestStore_UnknownNameParity(t *testing.T) {
	// Bulk construction and single mutation reject unknown names with
	// the same code.
	reg := newRegistry(t)
	_, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: reg,
		Values:   dynaprop.NewValues().Add("foo", 1),
	})
	if !dynaprop.HasCode(err, dynaprop.CodeUnknownProperty) {
		t.Fatalf("construction: expected unknown_property, got %v", err)
	}
	inst := mustContact(t)
	if err := inst.Set("foo", 1); !dynaprop.HasCode(err, dynaprop.CodeUnknownProperty) {
		t.Fatalf("mutation: expected unknown_property, got %v", err)
	}
}

func TestStore_UnknownPolicyAtConstruction(t *testing.T) {
	vals := dynaprop.NewValues().
		Add("name", "alice").
		Add("legacy_field", 42)

	if _, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: newRegistry(t),
		Values:   vals,
	}); !dynaprop.HasCode(err, dynaprop.CodeUnknownProperty) {
		t.Fatalf("strict default should reject unknown name, got %v", err)
	}

	inst, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: newRegistry(t),
		Values:   vals,
		Policy:   dynaprop.Policy{OnUnknown: dynaprop.UnknownStrip},
	})
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if v, _ := inst.Get("name"); v != "alice" {
		t.Fatalf("strip dropped a known name: %v", v)
	}

	inst, err = dynaprop.New(contactDef(), dynaprop.Config{
		Registry: newRegistry(t),
		Values:   vals,
		Policy:   dynaprop.Policy{OnUnknown: dynaprop.UnknownPassthrough},
	})
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	extras := inst.Store().Extras()
	if extras == nil {
		t.Fatalf("passthrough kept no extras")
	}
	if v, ok := extras.Get("legacy_field"); !ok || v != 42 {
		t.Fatalf("extras missing legacy_field: %v %v", v, ok)
	}
	// Extras never become addressable properties.
	if _, err := inst.Get("legacy_field"); !dynaprop.HasCode(err, dynaprop.CodeUnknownProperty) {
		t.Fatalf("extras leaked into the shape: %v", err)
	}
}

func TestStore_TypeMismatchParity(t *testing.T) {
	reg := newRegistry(t)
	_, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: reg,
		Values:   dynaprop.NewValues().Add("active", "yes"),
	})
	if !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("construction: expected type_mismatch, got %v", err)
	}
	inst := mustContact(t)
	if err := inst.Set("active", "yes"); !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("mutation: expected type_mismatch, got %v", err)
	}
}

func TestStore_KindExactNumbers(t *testing.T) {
	inst := mustContact(t)
	// age is int; an int64 is not accepted.
	if err := inst.Set("age", int64(30)); !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("expected kind-exact rejection, got %v", err)
	}
}

func TestStore_SetAllAppliesInOrderUntilFailure(t *testing.T) {
	// SetAll checks key syntax and root names up front, then applies in
	// entry order; a dynamic failure stops the merge with earlier
	// entries in place.
	inst := mustContact(t)
	vals := dynaprop.NewValues().
		Add("name", "alice").
		Add("scores[5]", 1). // fixed array never sized: dynamic bounds failure
		Add("age", 30)
	err := inst.SetAll(vals)
	if !dynaprop.HasCode(err, dynaprop.CodeArrayBounds) {
		t.Fatalf("expected array_bounds, got %v", err)
	}
	if v, _ := inst.Get("name"); v != "alice" {
		t.Fatalf("entries before the failure must stay applied, name = %v", v)
	}
	if v, _ := inst.Get("age"); v != 0 {
		t.Fatalf("entries after the failure must not apply, age = %v", v)
	}
}

func TestStore_NullVersusUnset(t *testing.T) {
	inst := mustContact(t)
	if err := inst.Set("address", nil); err != nil {
		t.Fatalf("set null: %v", err)
	}
	pres := inst.Store().PresenceOf("address")
	if !pres.Has(dynaprop.PresenceSeen) || !pres.Has(dynaprop.PresenceWasNull) {
		t.Fatalf("presence after explicit null = %v", pres)
	}
	if inst.Store().PresenceOf("name").Has(dynaprop.PresenceSeen) {
		t.Fatalf("unset property must carry no presence")
	}
	// Null is not legal for a primitive-kind property.
	if err := inst.Set("age", nil); !dynaprop.HasCode(err, dynaprop.CodeTypeMismatch) {
		t.Fatalf("expected type_mismatch for null int, got %v", err)
	}
}

func TestStore_UnsetClearsSlot(t *testing.T) {
	inst := mustContact(t)
	if err := inst.Set("name", "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := inst.Store().Unset("name"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if ok, _ := inst.Store().Has("name"); ok {
		t.Fatalf("unset slot still present")
	}
	if v, _ := inst.Get("name"); v != "" {
		t.Fatalf("unset string reads as zero, got %v", v)
	}
}

func TestStore_MalformedPaths(t *testing.T) {
	inst := mustContact(t)
	for _, expr := range []string{"", "a..b", "a[", "a[x!]", "9name", "a.b[1"} {
		if err := inst.Set(expr, 1); !dynaprop.HasCode(err, dynaprop.CodeMalformedPath) {
			t.Fatalf("%q: expected malformed_path, got %v", expr, err)
		}
	}
	// Structural misuse is invalid_path, not a syntax error.
	if err := inst.Set("name[0]", "x"); !dynaprop.HasCode(err, dynaprop.CodeInvalidPath) {
		t.Fatalf("indexing a scalar: %v", err)
	}
	if _, err := inst.Get("tags[]"); !dynaprop.HasCode(err, dynaprop.CodeInvalidPath) {
		t.Fatalf("append form in a read: %v", err)
	}
}

func TestStore_SharedNestedInstanceAliases(t *testing.T) {
	inst := mustContact(t)
	if err := inst.Set("address.city", "Kyoto"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	nested, _ := inst.Get("address")
	other := mustContact(t)
	// Assignment aliases; both parents observe later mutations.
	if err := other.Set("address", nested); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := other.Set("address.city", "Osaka"); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if v, _ := inst.Get("address.city"); v != "Osaka" {
		t.Fatalf("aliased mutation not visible: %v", v)
	}
}

func TestStore_PresenceMapCoversNesting(t *testing.T) {
	inst := mustContact(t)
	if err := inst.SetAll(dynaprop.NewValues().
		Add("name", "alice").
		Add("contacts[0].city", "Kyoto")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	pm := inst.Store().PresenceMap()
	if !pm["name"].Has(dynaprop.PresenceSeen) {
		t.Fatalf("presence map misses name: %v", pm)
	}
	if !pm["contacts[0].city"].Has(dynaprop.PresenceSeen) {
		t.Fatalf("presence map misses nested leaf: %v", pm)
	}
}
