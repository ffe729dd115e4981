package catalog

// DefaultServiceID names the built-in entry of each category.
const DefaultServiceID = "default"

var commonLanguages = []string{"ja", "en", "zh-CN", "zh-TW", "ko"}

func builtinOCR() []OCRService {
	formats := []string{"png", "jpg", "jpeg", "webp"}
	mk := func(id, name string, langs ...string) OCRService {
		if len(langs) == 0 {
			langs = commonLanguages
		}
		return OCRService{
			ID:                    id,
			Name:                  name,
			Version:               "1.0.0",
			PluginID:              BuiltinPluginID,
			SupportedLanguages:    langs,
			SupportedImageFormats: formats,
		}
	}
	return []OCRService{
		mk(DefaultServiceID, "Default OCR"),
		mk("tesseract", "Tesseract"),
		mk("paddleocr", "PaddleOCR", "zh-CN", "en", "ja", "ko"),
		mk("easyocr", "EasyOCR"),
	}
}

func builtinTranslation() []TranslationService {
	mk := func(id, name string, autoDetect bool) TranslationService {
		return TranslationService{
			ID:                 id,
			Name:               name,
			Version:            "1.0.0",
			PluginID:           BuiltinPluginID,
			SourceLanguages:    commonLanguages,
			TargetLanguages:    commonLanguages,
			SupportsAutoDetect: autoDetect,
		}
	}
	return []TranslationService{
		mk(DefaultServiceID, "Default Translation", true),
		mk("google", "Google Translate", true),
		mk("deepl", "DeepL", true),
		mk("chatgpt", "ChatGPT", true),
		mk("baidu", "Baidu Translate", false),
	}
}
