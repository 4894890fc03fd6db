// Package i18n translates messages loaded from YAML or JSON locale files.
//
// Files follow the Rails layout: top-level keys are languages and nested
// keys are joined with dots.
//
//	bundle, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithDir(os.DirFS("locales")),
//	)
//	bundle.T("de-AT", "posts.index.title")
//
// Lookups fall back from "de-AT" to "de" and then to the default language.
// Placeholders use {{name}}. A "count" value selects a plural form using
// the language's PluralRule:
//
//	inbox:
//	  unread:
//	    one: "{{count}} unread message"
//	    other: "{{count}} unread messages"
//
// Match negotiates the language for an Accept-Language header with
// golang.org/x/text/language.
package i18n
