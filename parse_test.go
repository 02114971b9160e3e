package dynaprop_test

import (
	"encoding/json"
	"strings"
	"testing"

	dynaprop "github.com/reoring/dynaprop"
)

func TestParseValues_JSONKeepsDocumentOrder(t *testing.T) {
	vals, err := dynaprop.ParseValues(dynaprop.JSONBytes([]byte(`{"z":1,"a":2,"m":3}`)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := vals.Keys()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("keys = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v want %v", got, want)
		}
	}
}

func TestParseValues_NestedShapes(t *testing.T) {
	vals, err := dynaprop.ParseValues(dynaprop.JSONBytes([]byte(`{
		"name": "alice",
		"address": {"city": "Kyoto"},
		"tags": ["a", "b"],
		"age": 30
	}`)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	addr, _ := vals.Get("address")
	nested, ok := addr.(*dynaprop.Values)
	if !ok {
		t.Fatalf("address = %T", addr)
	}
	if v, _ := nested.Get("city"); v != "Kyoto" {
		t.Fatalf("city = %v", v)
	}
	tags, _ := vals.Get("tags")
	if seq, ok := tags.([]any); !ok || len(seq) != 2 || seq[0] != "a" {
		t.Fatalf("tags = %#v", tags)
	}
	// Numbers stay textual until a declared kind interprets them.
	age, _ := vals.Get("age")
	if n, ok := age.(json.Number); !ok || n.String() != "30" {
		t.Fatalf("age = %#v", age)
	}
}

func TestParseValues_Float64Mode(t *testing.T) {
	src := dynaprop.WithNumberMode(dynaprop.JSONBytes([]byte(`{"age":30}`)), dynaprop.NumberFloat64)
	vals, err := dynaprop.ParseValues(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	age, _ := vals.Get("age")
	if f, ok := age.(float64); !ok || f != 30 {
		t.Fatalf("age = %#v", age)
	}
}

func TestParseValues_DuplicateKeyError(t *testing.T) {
	_, err := dynaprop.ParseValues(
		dynaprop.JSONBytes([]byte(`{"a":1,"a":2}`)),
		dynaprop.ParseOpt{Strictness: dynaprop.Strictness{OnDuplicateKey: dynaprop.Error}},
	)
	if !dynaprop.HasCode(err, dynaprop.CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
}

func TestParseValues_DuplicateKeyWarn(t *testing.T) {
	vals, warns, err := dynaprop.ParseValuesWithIssues(
		dynaprop.JSONBytes([]byte(`{"a":1,"a":2}`)),
		dynaprop.ParseOpt{Strictness: dynaprop.Strictness{OnDuplicateKey: dynaprop.Warn}},
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(warns) != 1 || warns[0].Code != dynaprop.CodeDuplicateKey {
		t.Fatalf("warns = %v", warns)
	}
	// Last occurrence wins in the decoded collection.
	if v, _ := vals.Get("a"); v.(json.Number).String() != "2" {
		t.Fatalf("a = %v", v)
	}
}

func TestParseValues_TopLevelMustBeObject(t *testing.T) {
	_, err := dynaprop.ParseValues(dynaprop.JSONBytes([]byte(`[1,2]`)))
	if !dynaprop.HasCode(err, dynaprop.CodeParseError) {
		t.Fatalf("expected parse_error for array document, got %v", err)
	}
}

func TestParseValues_TrailingContent(t *testing.T) {
	_, err := dynaprop.ParseValues(dynaprop.JSONBytes([]byte(`{"a":1} {"b":2}`)))
	if !dynaprop.HasCode(err, dynaprop.CodeParseError) {
		t.Fatalf("expected parse_error for trailing content, got %v", err)
	}
}

func TestParseValues_MaxDepth(t *testing.T) {
	_, err := dynaprop.ParseValues(
		dynaprop.JSONBytes([]byte(`{"a":{"b":{"c":1}}}`)),
		dynaprop.ParseOpt{MaxDepth: 2},
	)
	if !dynaprop.HasCode(err, dynaprop.CodeParseError) {
		t.Fatalf("expected parse_error past max depth, got %v", err)
	}
}

func TestParseValues_YAML(t *testing.T) {
	doc := strings.Join([]string{
		"name: alice",
		"address:",
		"  city: Kyoto",
		"tags:",
		"  - a",
		"  - b",
		"active: true",
		"nickname: null",
	}, "\n")
	vals, err := dynaprop.ParseValues(dynaprop.YAMLBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := vals.Keys(); got[0] != "name" || got[1] != "address" {
		t.Fatalf("keys = %v", got)
	}
	addr, _ := vals.Get("address")
	if nested, ok := addr.(*dynaprop.Values); !ok {
		t.Fatalf("address = %T", addr)
	} else if v, _ := nested.Get("city"); v != "Kyoto" {
		t.Fatalf("city = %v", v)
	}
	if v, _ := vals.Get("active"); v != true {
		t.Fatalf("active = %v", v)
	}
	if v, ok := vals.Get("nickname"); !ok || v != nil {
		t.Fatalf("nickname = %v present=%v", v, ok)
	}
}

func TestParseValues_YAMLAnchors(t *testing.T) {
	doc := strings.Join([]string{
		"base: &c Kyoto",
		"copy: *c",
	}, "\n")
	vals, err := dynaprop.ParseValues(dynaprop.YAMLBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v, _ := vals.Get("copy"); v != "Kyoto" {
		t.Fatalf("alias not followed: %v", v)
	}
}

func TestParseValues_FeedsConstruction(t *testing.T) {
	vals, err := dynaprop.ParseValues(dynaprop.JSONBytes([]byte(`{
		"name": "alice",
		"age": 30,
		"address": {"city": "Kyoto"},
		"tags": ["a", "b"]
	}`)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	inst, err := dynaprop.New(contactDef(), dynaprop.Config{
		Registry: newRegistry(t),
		Values:   vals,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if v, _ := inst.Get("age"); v != 30 {
		t.Fatalf("textual number must land as the declared kind, age = %#v", v)
	}
	if v, _ := inst.Get("address.city"); v != "Kyoto" {
		t.Fatalf("address.city = %v", v)
	}
	if v, _ := inst.Get("tags[1]"); v != "b" {
		t.Fatalf("tags[1] = %v", v)
	}
}
