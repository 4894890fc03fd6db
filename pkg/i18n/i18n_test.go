package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/i18n"
)

var locales = fstest.MapFS{
	"en.yml": {Data: []byte(`
en:
  hello: "Hello, {{name}}!"
  posts:
    index:
      title: All posts
  inbox:
    unread:
      zero: No unread messages
      one: "{{count}} unread message"
      other: "{{count}} unread messages"
  answer: 42
`)},
	"de.json": {Data: []byte(`{"de": {"hello": "Hallo, {{name}}!", "inbox": {"unread": {"one": "{{count}} ungelesene Nachricht", "other": "{{count}} ungelesene Nachrichten"}}}}`)},
	"de-AT.yaml": {Data: []byte("de-AT:\n  hello: \"Servus, {{name}}!\"\n")},
	"ru.yml": {Data: []byte(`
ru:
  files:
    one: "{{count}} файл"
    few: "{{count}} файла"
    many: "{{count}} файлов"
`)},
	"README.md": {Data: []byte("ignored")},
}

func newBundle(t *testing.T, opts ...i18n.Option) *i18n.Bundle {
	t.Helper()
	b, err := i18n.New(append([]i18n.Option{i18n.WithDir(locales)}, opts...)...)
	require.NoError(t, err)
	return b
}

func TestBundle_T(t *testing.T) {
	t.Parallel()

	b := newBundle(t)
	tests := []struct {
		name string
		lang string
		key  string
		vals i18n.M
		want string
	}{
		{"default language", "en", "hello", i18n.M{"name": "Ann"}, "Hello, Ann!"},
		{"nested key", "en", "posts.index.title", nil, "All posts"},
		{"other language", "de", "hello", i18n.M{"name": "Ann"}, "Hallo, Ann!"},
		{"region variant", "de_at", "hello", i18n.M{"name": "Ann"}, "Servus, Ann!"},
		{"region falls back to base", "de-CH", "hello", i18n.M{"name": "Ann"}, "Hallo, Ann!"},
		{"falls back to default", "de", "posts.index.title", nil, "All posts"},
		{"unknown language", "fr", "posts.index.title", nil, "All posts"},
		{"missing key", "en", "nope", nil, "nope"},
		{"non-string value", "en", "answer", nil, "42"},
		{"unknown placeholder kept", "en", "hello", nil, "Hello, {{name}}!"},
		{"plural one", "en", "inbox.unread", i18n.M{"count": 1}, "1 unread message"},
		{"plural other", "en", "inbox.unread", i18n.M{"count": 5}, "5 unread messages"},
		{"plural uses other without rule form", "en", "inbox.unread", i18n.M{"count": 0}, "0 unread messages"},
		{"plural in german", "de", "inbox.unread", i18n.M{"count": 2}, "2 ungelesene Nachrichten"},
		{"russian few", "ru", "files", i18n.M{"count": 3}, "3 файла"},
		{"russian many", "ru", "files", i18n.M{"count": 11}, "11 файлов"},
		{"russian one", "ru", "files", i18n.M{"count": 21}, "21 файл"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var vals []i18n.M
			if tt.vals != nil {
				vals = append(vals, tt.vals)
			}
			assert.Equal(t, tt.want, b.T(tt.lang, tt.key, vals...))
		})
	}
}

func TestBundle_CustomPluralRule(t *testing.T) {
	t.Parallel()

	b := newBundle(t, i18n.WithPluralRule("en", func(n int) string {
		if n == 0 {
			return i18n.PluralZero
		}
		return i18n.OneOther(n)
	}))
	assert.Equal(t, "No unread messages", b.T("en", "inbox.unread", i18n.M{"count": 0}))

	_, err := i18n.New(i18n.WithPluralRule("en", nil))
	require.ErrorIs(t, err, i18n.ErrNilPluralRule)
}

func TestBundle_MissingKeyHandler(t *testing.T) {
	t.Parallel()

	var missing []string
	b := newBundle(t, i18n.WithMissingKeyHandler(func(lang, key string) {
		missing = append(missing, lang+":"+key)
	}))
	b.T("de", "hello")
	b.T("de", "ghost")
	assert.Equal(t, []string{"de:ghost"}, missing)
	assert.True(t, b.Has("de", "posts.index.title"))
	assert.False(t, b.Has("de", "ghost"))
}

func TestBundle_Languages(t *testing.T) {
	t.Parallel()

	b := newBundle(t, i18n.WithDefaultLanguage("en"))
	langs := b.Languages()
	require.NotEmpty(t, langs)
	assert.Equal(t, "en", langs[0])
	assert.ElementsMatch(t, []string{"en", "de", "de-AT", "ru"}, langs)

	assert.True(t, b.Supports("de-CH"))
	assert.True(t, b.Supports("EN"))
	assert.False(t, b.Supports("fr"))
	assert.False(t, b.Supports(""))

	_, err := i18n.New(i18n.WithDefaultLanguage(""))
	require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
}

func TestBundle_Match(t *testing.T) {
	t.Parallel()

	b := newBundle(t)
	assert.Equal(t, "de", b.Match("de-DE,de;q=0.9,en;q=0.5"))
	assert.Equal(t, "ru", b.Match("fr", "ru"))
	assert.Equal(t, "en", b.Match("ja"))
	assert.Equal(t, "en", b.Match(""))
	assert.Equal(t, "en", b.Match())
}

func TestWithDir_Invalid(t *testing.T) {
	t.Parallel()

	_, err := i18n.New(i18n.WithDir(fstest.MapFS{"en.yml": {Data: []byte("en: [")}}))
	require.ErrorIs(t, err, i18n.ErrInvalidFile)

	_, err = i18n.New(i18n.WithDir(fstest.MapFS{"en.yml": {Data: []byte("en: hello")}}))
	require.ErrorIs(t, err, i18n.ErrInvalidFile)
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	b := newBundle(t)

	en := b.Translator("")
	assert.Equal(t, "en", en.Language())
	assert.Equal(t, "All posts", en.Scoped("posts.index", ".title"))
	assert.Equal(t, "All posts", en.Scoped("other", "posts.index.title"))
	assert.Equal(t, "Hello, Bo!", en.T("hello", i18n.M{"name": "Bo"}))
	assert.Equal(t, "1,234.5", en.Number(1234.5))
	assert.Equal(t, "25%", en.Percent(0.25))

	de := b.Translator("de")
	assert.Equal(t, "1.234,5", de.Number(1234.5))
}
