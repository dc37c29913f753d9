// Package i18n provides an immutable translation catalog for USSD menu and
// prompt rendering. Lookups fail closed: a missing translation falls back to
// the default language, then to the key itself, and never errors. A handset
// must always receive renderable text.
package i18n

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// M is a convenience type for placeholder maps used in translations.
type M map[string]any

// I18n holds translations keyed by "lang:key". It is immutable after
// construction and safe for concurrent use.
type I18n struct {
	translations map[string]string
	defaultLang  string
	languages    []string

	// missingKeyHandler is called when a key is absent in every language.
	missingKeyHandler func(lang, key string)
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance. All configuration happens during
// construction, making the instance immutable and thread-safe from creation.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	i.languages = i.buildLanguagesList()

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		i.defaultLang = lang
		return nil
	}
}

// WithTranslations loads a flat key catalog for one language.
func WithTranslations(lang string, translations map[string]string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		for key, value := range translations {
			i.translations[buildKey(lang, key)] = value
		}
		return nil
	}
}

// WithMissingKeyHandler sets a handler invoked when a translation key is not
// found in any language, including the default fallback. Useful for logging
// missing translations during development.
func WithMissingKeyHandler(handler func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T retrieves a translation for the given language and key. Falls back to
// the default language, then returns the key itself as last resort.
func (i *I18n) T(lang, key string, placeholders ...M) string {
	if translation, exists := i.translations[buildKey(lang, key)]; exists {
		return replacePlaceholders(translation, placeholders...)
	}

	if lang != i.defaultLang {
		if translation, exists := i.translations[buildKey(i.defaultLang, key)]; exists {
			return replacePlaceholders(translation, placeholders...)
		}
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}

	return key
}

// HasLanguage reports whether any translations were loaded for lang.
func (i *I18n) HasLanguage(lang string) bool {
	for _, l := range i.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Languages returns the configured languages, default first, the rest
// sorted alphabetically.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the configured fallback language code.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func (i *I18n) buildLanguagesList() []string {
	seen := map[string]bool{i.defaultLang: true}
	others := make([]string, 0)
	for composite := range i.translations {
		lang, _, _ := strings.Cut(composite, ":")
		if !seen[lang] {
			seen[lang] = true
			others = append(others, lang)
		}
	}
	sort.Strings(others)
	return append([]string{i.defaultLang}, others...)
}

func buildKey(lang, key string) string {
	return lang + ":" + key
}

// replacePlaceholders substitutes {name} markers with values from the
// provided maps. Unknown placeholders are left intact.
func replacePlaceholders(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}
	result := template
	for _, p := range placeholders {
		for name, value := range p {
			result = strings.ReplaceAll(result, "{"+name+"}", fmt.Sprintf("%v", value))
		}
	}
	return result
}
