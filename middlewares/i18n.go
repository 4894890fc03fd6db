package middlewares

import (
	"github.com/dmitrymomot/actionkit/internal"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
)

// LanguageCookie is the cookie read by the default language extractor and
// written when the language comes from the query string.
const LanguageCookie = "lang"

// I18nConfig configures the I18n middleware.
type I18nConfig struct {
	Extractor    internal.Extractor
	Remember     bool
	CookieMaxAge int
	extractorSet bool
}

// I18nOption configures I18nConfig.
type I18nOption func(*I18nConfig)

// WithI18nExtractor sets a custom language extractor chain.
func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithI18nRemember stores a language picked with ?lang= in the language
// cookie for maxAge seconds.
func WithI18nRemember(maxAge int) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Remember = true
		cfg.CookieMaxAge = maxAge
	}
}

// FromAcceptLanguage returns an ExtractorSource that reads the
// Accept-Language header. The bundle picks the best supported match.
func FromAcceptLanguage() internal.ExtractorSource {
	return internal.FromHeader("Accept-Language")
}

// I18n returns middleware that resolves the request language, creates a
// Translator and stores both in the request context, where c.T and
// c.Language pick them up. Sources are tried in order: the lang query
// parameter, the lang cookie, then Accept-Language. Values the bundle does
// not support fall back to its default language.
func I18n(bundle *i18n.Bundle, opts ...I18nOption) internal.Middleware {
	cfg := &I18nConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromQuery("lang"),
			internal.FromCookie(LanguageCookie),
			FromAcceptLanguage(),
		)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			raw, _ := cfg.Extractor.Extract(c)
			lang := bundle.Match(raw)

			if cfg.Remember && c.Query("lang") != "" && bundle.Supports(c.Query("lang")) {
				if err := c.SetCookie(LanguageCookie, lang, cfg.CookieMaxAge); err != nil {
					c.LogWarn("failed to store language cookie", "error", err)
				}
			}

			c.Set(internal.TranslatorKey{}, bundle.Translator(lang))
			c.Set(internal.LanguageKey{}, lang)
			c.SetHeader("Content-Language", lang)

			return next(c)
		}
	}
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the I18n middleware is not used.
func GetTranslator(c internal.Context) *i18n.Translator {
	return internal.ContextValue[*i18n.Translator](c, internal.TranslatorKey{})
}

// GetLanguage extracts the resolved language from the context.
// Returns an empty string if the I18n middleware is not used.
func GetLanguage(c internal.Context) string {
	return internal.ContextValue[string](c, internal.LanguageKey{})
}
