package dynaprop_test

import (
	"bytes"
	"strconv"
	"testing"

	dynaprop "github.com/reoring/dynaprop"
	"github.com/reoring/dynaprop/path"
)

func smallContactJSON() []byte {
	return []byte(`{"name":"alice","age":30,"address":{"city":"Kyoto","zip":"600"},"tags":["a","b","c"]}`)
}

// generateWideJSON returns {"k0":"v0","k1":"v1",...} with n members.
func generateWideJSON(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * 16)
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"k` + strconv.Itoa(i) + `":"v` + strconv.Itoa(i) + `"`)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func BenchmarkParseValues_Small(b *testing.B) {
	doc := smallContactJSON()
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dynaprop.ParseValues(dynaprop.JSONBytes(doc)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseValues_Wide(b *testing.B) {
	doc := generateWideJSON(1000)
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dynaprop.ParseValues(dynaprop.JSONBytes(doc)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseValues_DuplicateDetection(b *testing.B) {
	doc := generateWideJSON(1000)
	opt := dynaprop.ParseOpt{Strictness: dynaprop.Strictness{OnDuplicateKey: dynaprop.Warn}}
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dynaprop.ParseValues(dynaprop.JSONBytes(doc), opt); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseValues_YAML(b *testing.B) {
	doc := []byte("name: alice\naddress:\n  city: Kyoto\ntags:\n  - a\n  - b\n")
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dynaprop.ParseValues(dynaprop.YAMLBytes(doc)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPathParse(b *testing.B) {
	exprs := []string{
		"name",
		"address.city",
		"contacts[2].email",
		"tags[]",
		"attrs[color]",
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := path.Parse(exprs[i%len(exprs)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExportJSON(b *testing.B) {
	inst := newContact(b)
	if err := inst.SetAll(dynaprop.NewValues().
		Add("name", "alice").
		Add("age", 30).
		Add("address.city", "Kyoto").
		Add("tags[]", "a").
		Add("tags[]", "b")); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := dynaprop.ExportJSON(inst); err != nil {
			b.Fatal(err)
		}
	}
}
