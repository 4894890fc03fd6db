package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when WithDefaultLanguage is not given.
const DefaultLanguage = "en"

// M holds interpolation values. The "count" key also selects the plural form.
type M = map[string]any

// Bundle holds translations for every language. It is immutable once built
// and safe for concurrent use.
type Bundle struct {
	// "lang:dotted.key" -> message
	messages    map[string]string
	plurals     map[string]PluralRule
	onMissing   func(lang, key string)
	matcher     language.Matcher
	defaultLang string
	languages   []string
}

// Option configures a Bundle.
type Option func(*Bundle) error

// New builds a bundle. The default language is always listed first in
// Languages; other languages appear in the order they were loaded.
func New(opts ...Option) (*Bundle, error) {
	b := &Bundle{
		messages:    make(map[string]string),
		plurals:     make(map[string]PluralRule),
		defaultLang: DefaultLanguage,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("i18n: apply option: %w", err)
		}
	}

	langs := []string{b.defaultLang}
	for _, l := range b.languages {
		if l != b.defaultLang {
			langs = append(langs, l)
		}
	}
	b.languages = langs

	tags := make([]language.Tag, len(langs))
	for i, l := range langs {
		tags[i] = language.Make(l)
	}
	b.matcher = language.NewMatcher(tags)

	return b, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(b *Bundle) error {
		lang = canonical(lang)
		if lang == "" {
			return ErrEmptyLanguage
		}
		b.defaultLang = lang
		return nil
	}
}

// WithMessages adds nested messages for lang. Nested maps are addressed with
// dotted keys.
func WithMessages(lang string, messages map[string]any) Option {
	return func(b *Bundle) error {
		lang = canonical(lang)
		if lang == "" {
			return ErrEmptyLanguage
		}
		b.add(lang, messages)
		return nil
	}
}

// WithPluralRule overrides the plural rule for lang.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(b *Bundle) error {
		lang = canonical(lang)
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		b.plurals[lang] = rule
		return nil
	}
}

// WithMissingKeyHandler is called whenever T falls back to returning the key.
func WithMissingKeyHandler(fn func(lang, key string)) Option {
	return func(b *Bundle) error {
		b.onMissing = fn
		return nil
	}
}

func (b *Bundle) add(lang string, messages map[string]any) {
	if !b.has(lang) {
		b.languages = append(b.languages, lang)
	}
	for k, v := range flatten(messages, "") {
		b.messages[lang+":"+k] = v
	}
}

func (b *Bundle) has(lang string) bool {
	return slices.Contains(b.languages, lang)
}

// DefaultLanguage returns the fallback language.
func (b *Bundle) DefaultLanguage() string {
	return b.defaultLang
}

// Languages returns the supported languages, default first.
func (b *Bundle) Languages() []string {
	return b.languages
}

// Supports reports whether lang, or its base language, has translations.
func (b *Bundle) Supports(lang string) bool {
	lang = canonical(lang)
	return lang != "" && (b.has(lang) || b.has(base(lang)))
}

// Match picks the best supported language for the given preferences. Each
// preference may be a language tag or a full Accept-Language header.
// Unusable input yields the default language.
func (b *Bundle) Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return b.defaultLang
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.defaultLang
	}
	return b.languages[idx]
}

// T translates key for lang. Lookups fall back from the region variant to
// the base language and then to the default language. With a "count"
// value, "key.<form>" is tried before "key.other". The key itself is
// returned when nothing matches.
func (b *Bundle) T(lang, key string, vals ...M) string {
	merged := merge(vals)
	for _, l := range b.chain(lang) {
		if msg, ok := b.lookup(l, key, merged); ok {
			return interpolate(msg, merged)
		}
	}
	if b.onMissing != nil {
		b.onMissing(lang, key)
	}
	return key
}

// Has reports whether key is translated for lang or a fallback.
func (b *Bundle) Has(lang, key string) bool {
	for _, l := range b.chain(lang) {
		if _, ok := b.lookup(l, key, nil); ok {
			return true
		}
	}
	return false
}

func (b *Bundle) lookup(lang, key string, vals M) (string, bool) {
	if n, ok := count(vals); ok {
		if msg, ok := b.messages[lang+":"+key+"."+b.plural(lang)(n)]; ok {
			return msg, true
		}
		if msg, ok := b.messages[lang+":"+key+"."+PluralOther]; ok {
			return msg, true
		}
	}
	msg, ok := b.messages[lang+":"+key]
	return msg, ok
}

func (b *Bundle) plural(lang string) PluralRule {
	if r, ok := b.plurals[lang]; ok {
		return r
	}
	if r, ok := b.plurals[base(lang)]; ok {
		return r
	}
	return RuleFor(lang)
}

// chain lists the languages tried for lang, most specific first.
func (b *Bundle) chain(lang string) []string {
	lang = canonical(lang)
	out := make([]string, 0, 3)
	if lang != "" {
		out = append(out, lang)
		if bl := base(lang); bl != lang {
			out = append(out, bl)
		}
	}
	if !slices.Contains(out, b.defaultLang) {
		out = append(out, b.defaultLang)
	}
	return out
}

// canonical normalizes "en_us" and "EN-us" to "en-US". Unparsable input is
// returned lowercased so lookups still work for private tags.
func canonical(lang string) string {
	lang = strings.TrimSpace(strings.ReplaceAll(lang, "_", "-"))
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	return tag.String()
}

func base(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	b, _ := tag.Base()
	return b.String()
}

func flatten(data map[string]any, prefix string) map[string]string {
	out := make(map[string]string)
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			maps.Copy(out, flatten(val, key))
		case map[string]string:
			for sk, sv := range val {
				out[key+"."+sk] = sv
			}
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out
}

func merge(vals []M) M {
	if len(vals) == 0 {
		return nil
	}
	if len(vals) == 1 {
		return vals[0]
	}
	out := make(M)
	for _, v := range vals {
		maps.Copy(out, v)
	}
	return out
}

// interpolate replaces {{name}} with vals["name"]. Unknown placeholders are
// left untouched.
func interpolate(msg string, vals M) string {
	if len(vals) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	for k, v := range vals {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", fmt.Sprint(v))
	}
	return msg
}

func count(vals M) (int, bool) {
	switch n := vals["count"].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
