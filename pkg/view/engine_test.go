package view_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/view"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/index.html":         {Data: []byte(`<ul>{{range .posts}}<li>{{.}}</li>{{end}}</ul>`)},
		"posts/show.tmpl":          {Data: []byte(`<h1>{{.title}}</h1>`)},
		"posts/_post.html":         {Data: []byte(`<article>{{.object}}</article>`)},
		"pages/about.md":           {Data: []byte("---\ntitle: About us\n---\n# {{.meta.title}}\n\nHello **{{.name}}**<script>x()</script>\n")},
		"pages/broken.md":          {Data: []byte("---\ntitle: [\n---\nbody")},
		"layouts/application.html": {Data: []byte(`<html><title>{{.meta.title}}</title><body>{{.yield}}</body></html>`)},
		"both.html":                {Data: []byte("html")},
		"both.tmpl":                {Data: []byte("tmpl")},
	}
}

func render(t *testing.T, v *view.View, data map[string]any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.Component(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestEngine_Lookup(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())

	v, err := e.Lookup("posts/index")
	require.NoError(t, err)
	assert.Equal(t, "posts/index.html", v.Name())
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", render(t, v, map[string]any{"posts": []string{"a", "b"}}))

	v, err = e.Lookup("posts/show")
	require.NoError(t, err)
	assert.Equal(t, "<h1>&lt;b&gt;</h1>", render(t, v, map[string]any{"title": "<b>"}))

	v, err = e.Lookup("both")
	require.NoError(t, err)
	assert.Equal(t, "html", render(t, v, nil))

	v, err = e.Lookup("/posts/_post.html")
	require.NoError(t, err)
	assert.Equal(t, "<article>x</article>", render(t, v, map[string]any{"object": "x"}))

	_, err = e.Lookup("posts/missing")
	require.ErrorIs(t, err, view.ErrTemplateNotFound)
	assert.False(t, e.Exists("posts/missing"))
	assert.True(t, e.Exists("posts/index"))
}

func TestEngine_Markdown(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())

	v, err := e.Lookup("pages/about")
	require.NoError(t, err)
	assert.Equal(t, "About us", v.Meta()["title"])

	out := render(t, v, map[string]any{"name": "Ann"})
	assert.Contains(t, out, `<h1 id="about-us">About us</h1>`)
	assert.Contains(t, out, "<strong>Ann</strong>")
	assert.NotContains(t, out, "<script")

	_, err = e.Lookup("pages/broken")
	require.ErrorIs(t, err, view.ErrInvalidFrontMatter)
}

func TestEngine_Layout(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())
	assert.True(t, e.HasLayout("application"))
	assert.False(t, e.HasLayout("admin"))
	assert.False(t, e.HasLayout(""))

	_, err := e.Layout("admin")
	require.ErrorIs(t, err, view.ErrLayoutNotFound)

	layout, err := e.Layout("application")
	require.NoError(t, err)
	page, err := e.Lookup("pages/about")
	require.NoError(t, err)

	data := map[string]any{"name": "Bob"}
	var buf bytes.Buffer
	err = view.Wrap(layout, page.Component(data), map[string]any{"meta": page.Meta()}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<html><title>About us</title>"))
	assert.Contains(t, out, "<strong>Bob</strong>")
	assert.NotContains(t, out, "&lt;strong&gt;")
	assert.NotContains(t, data, view.KeyYield)
}

func TestEngine_Inline(t *testing.T) {
	t.Parallel()

	e := view.New(testFS())
	v, err := e.Inline(`Hi {{.name}} {{markdown "*x*"}}`)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ann <p><em>x</em></p>\n", render(t, v, map[string]any{"name": "Ann"}))

	_, err = e.Inline(`{{.name`)
	require.ErrorIs(t, err, view.ErrRenderFailed)
}

func TestEngine_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "note.html")
	require.NoError(t, os.WriteFile(p, []byte(`note {{.n}}`), 0o600))

	e := view.New(testFS())
	v, err := e.File(p)
	require.NoError(t, err)
	assert.Equal(t, "note 1", render(t, v, map[string]any{"n": 1}))

	_, err = e.File(filepath.Join(dir, "nope.html"))
	require.ErrorIs(t, err, view.ErrTemplateNotFound)
}

func TestEngine_ExecuteError(t *testing.T) {
	t.Parallel()

	e := view.New(fstest.MapFS{"bad.html": {Data: []byte(`{{template "missing"}}`)}})
	v, err := e.Lookup("bad")
	require.NoError(t, err)
	err = v.Execute(&bytes.Buffer{}, nil)
	require.ErrorIs(t, err, view.ErrRenderFailed)
}

func TestEngine_NoCache(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"a.html": {Data: []byte("one")}}
	e := view.New(fsys, view.WithCacheSize(0))

	v, err := e.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, "one", render(t, v, nil))

	fsys["a.html"] = &fstest.MapFile{Data: []byte("two")}
	v, err = e.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, "two", render(t, v, nil))
}
