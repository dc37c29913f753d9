package i18n

// Translator provides a translation interface bound to a fixed language,
// eliminating the need to pass the language on every lookup. Flow handlers
// receive a Translator bound to the session's language.
type Translator struct {
	i18n     *I18n
	language string
}

// NewTranslator creates a Translator for the given language. An empty or
// unknown language binds to the catalog's default language.
func NewTranslator(i18n *I18n, language string) *Translator {
	if i18n == nil {
		panic("localization service is not provided")
	}
	if language == "" || !i18n.HasLanguage(language) {
		language = i18n.DefaultLanguage()
	}
	return &Translator{
		i18n:     i18n,
		language: language,
	}
}

// T translates a key using the translator's language.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.T(t.language, key, placeholders...)
}

// Language returns the language this translator is bound to.
func (t *Translator) Language() string {
	return t.language
}
