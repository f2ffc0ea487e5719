package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "missing_key":
			return "キーが見つかりません"
		case "type_mismatch":
			return "型が一致しません"
		case "item_decode":
			return "要素のデコードに失敗しました"
		case "value_decode":
			return "値のデコードに失敗しました"
		case "ambiguous_variant":
			return "バリアントが曖昧または欠落しています"
		case "no_matching_case":
			return "一致するケースがありません"
		case "invalid_configuration":
			return "構成が不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "missing_key":
			return "key not found"
		case "type_mismatch":
			return "type mismatch"
		case "item_decode":
			return "item decode failed"
		case "value_decode":
			return "value decode failed"
		case "ambiguous_variant":
			return "ambiguous or missing variant"
		case "no_matching_case":
			return "no matching case"
		case "invalid_configuration":
			return "invalid configuration"
		case "parse_error":
			return "parse error"
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
