package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("type_mismatch", nil); msg == "type_mismatch" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("type_mismatch", nil); msg == "type mismatch" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown code should echo, got %q", msg)
	}
}

func TestSetTranslator_NilRestoresDefault(t *testing.T) {
	SetTranslator(nil)
	if msg := T("unknown_property", nil); msg == "" {
		t.Fatalf("default translator should answer")
	}
}
