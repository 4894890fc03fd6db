package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Translator binds a Bundle to one language.
type Translator struct {
	bundle  *Bundle
	printer *message.Printer
	lang    string
}

// Translator returns a translator for lang. An empty lang selects the
// default language.
func (b *Bundle) Translator(lang string) *Translator {
	if lang = canonical(lang); lang == "" {
		lang = b.defaultLang
	}
	return &Translator{
		bundle:  b,
		lang:    lang,
		printer: message.NewPrinter(language.Make(lang)),
	}
}

func (t *Translator) Language() string {
	return t.lang
}

func (t *Translator) T(key string, vals ...M) string {
	return t.bundle.T(t.lang, key, vals...)
}

// Scoped resolves keys starting with "." under scope, so ".title" in scope
// "posts.index" reads "posts.index.title". Other keys are used as is.
func (t *Translator) Scoped(scope, key string, vals ...M) string {
	if strings.HasPrefix(key, ".") && scope != "" {
		key = scope + key
	}
	return t.T(strings.TrimPrefix(key, "."), vals...)
}

// Number formats n with the language's digit grouping and decimal mark.
func (t *Translator) Number(n float64) string {
	return t.printer.Sprint(number.Decimal(n))
}

// Percent formats a ratio, 0.25 -> "25%".
func (t *Translator) Percent(ratio float64) string {
	return t.printer.Sprint(number.Percent(ratio))
}
