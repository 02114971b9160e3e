package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "malformed_path":
			return "パス式が不正です"
		case "unknown_property":
			return "未知のプロパティです"
		case "invalid_path":
			return "パスを適用できません"
		case "array_bounds":
			return "配列の範囲外です"
		case "type_mismatch":
			return "型が一致しません"
		case "unsupported_behavior":
			return "委譲先のないメソッドです"
		case "shape_introspection":
			return "インターフェース定義を解釈できません"
		case "unknown_method":
			return "未知のメソッドです"
		case "bad_argument":
			return "引数が不正です"
		case "overflow":
			return "数値が範囲外です"
		case "duplicate_key":
			return "キーが重複しています"
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "malformed_path":
			return "malformed path expression"
		case "unknown_property":
			return "unknown property"
		case "invalid_path":
			return "path not applicable"
		case "array_bounds":
			return "index out of range"
		case "type_mismatch":
			return "type mismatch"
		case "unsupported_behavior":
			return "behavior has no delegate"
		case "shape_introspection":
			return "cannot introspect interface definition"
		case "unknown_method":
			return "unknown method"
		case "bad_argument":
			return "bad argument"
		case "overflow":
			return "number out of range"
		case "duplicate_key":
			return "duplicate key"
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
