package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/actionkit/pkg/sanitizer"
)

// DefaultExtensions are tried in order when a view name has no extension.
var DefaultExtensions = []string{".html", ".tmpl", ".md"}

const (
	defaultCacheSize = 256
	defaultLayoutDir = "layouts"
)

// Engine finds, parses and caches views from a filesystem.
type Engine struct {
	fs        fs.FS
	cache     *lru.Cache[string, *View]
	md        goldmark.Markdown
	policy    *bluemonday.Policy
	funcs     template.FuncMap
	layoutDir string
	exts      []string
	cacheSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLayoutDir sets the directory layouts are looked up in. Default: "layouts".
func WithLayoutDir(dir string) Option {
	return func(e *Engine) {
		e.layoutDir = dir
	}
}

// WithExtensions replaces the list of extensions tried on lookup.
func WithExtensions(exts ...string) Option {
	return func(e *Engine) {
		e.exts = exts
	}
}

// WithCacheSize sets how many parsed views are kept.
// Zero disables caching, so edits show up without a restart.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithFuncs adds template functions to every view.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for k, v := range funcs {
			e.funcs[k] = v
		}
	}
}

// WithPolicy sets the sanitizing policy for markdown output.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// New creates an Engine reading views from fsys.
func New(fsys fs.FS, opts ...Option) *Engine {
	e := &Engine{
		fs:        fsys,
		layoutDir: defaultLayoutDir,
		exts:      DefaultExtensions,
		cacheSize: defaultCacheSize,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	e.funcs = template.FuncMap{
		"safe":     func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec // explicit opt-in
		"markdown": e.markdownFunc,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cacheSize > 0 {
		// Only fails for a non-positive size.
		e.cache, _ = lru.New[string, *View](e.cacheSize)
	}
	return e
}

// Lookup returns the view stored under name, e.g. "posts/show".
// A name with an extension is tried as is first.
func (e *Engine) Lookup(name string) (*View, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if v, ok := e.cached("view:" + name); ok {
		return v, nil
	}

	for _, candidate := range e.candidates(name) {
		src, err := fs.ReadFile(e.fs, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, candidate, err)
		}

		v, err := e.parse(candidate, src)
		if err != nil {
			return nil, err
		}
		e.store("view:"+name, v)
		return v, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// Exists reports whether a view is stored under name.
func (e *Engine) Exists(name string) bool {
	_, err := e.Lookup(name)
	return err == nil
}

// Layout returns the layout stored under name in the layout directory.
func (e *Engine) Layout(name string) (*View, error) {
	v, err := e.Lookup(path.Join(e.layoutDir, name))
	if errors.Is(err, ErrTemplateNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
	}
	return v, err
}

// HasLayout reports whether a layout named name exists.
func (e *Engine) HasLayout(name string) bool {
	if name == "" {
		return false
	}
	_, err := e.Layout(name)
	return err == nil
}

// File parses a view from an absolute path on disk. The extension picks the
// format; markdown files are converted, anything else is an html template.
func (e *Engine) File(p string) (*View, error) {
	if v, ok := e.cached("file:" + p); ok {
		return v, nil
	}

	src, err := os.ReadFile(filepath.Clean(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, p, err)
	}

	v, err := e.parse(p, src)
	if err != nil {
		return nil, err
	}
	e.store("file:"+p, v)
	return v, nil
}

// Inline parses src as an html template.
func (e *Engine) Inline(src string) (*View, error) {
	key := "inline:" + src
	if v, ok := e.cached(key); ok {
		return v, nil
	}

	t, err := template.New("inline").Funcs(e.funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: inline: %v", ErrRenderFailed, err)
	}
	v := &View{name: "inline", html: t, meta: map[string]any{}}
	e.store(key, v)
	return v, nil
}

// Purge drops every cached view.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Engine) candidates(name string) []string {
	out := make([]string, 0, len(e.exts)+1)
	if path.Ext(name) != "" {
		out = append(out, name)
	}
	for _, ext := range e.exts {
		out = append(out, name+ext)
	}
	return out
}

func (e *Engine) parse(name string, src []byte) (*View, error) {
	if strings.EqualFold(path.Ext(name), ".md") {
		meta, body, err := splitFrontMatter(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		t, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(e.funcs)).Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
		}
		return &View{name: name, meta: meta, markdown: t, convert: e.convert}, nil
	}

	t, err := template.New(name).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}
	return &View{name: name, meta: map[string]any{}, html: t}, nil
}

func (e *Engine) convert(src []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := e.md.Convert(src, &out); err != nil {
		return nil, err
	}
	if e.policy != nil {
		return e.policy.SanitizeBytes(out.Bytes()), nil
	}
	return []byte(sanitizer.SanitizeMarkdown(out.String())), nil
}

func (e *Engine) markdownFunc(s string) (template.HTML, error) {
	out, err := e.convert([]byte(s))
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil //nolint:gosec // sanitized
}

func (e *Engine) cached(key string) (*View, bool) {
	if e.cache == nil {
		return nil, false
	}
	return e.cache.Get(key)
}

func (e *Engine) store(key string, v *View) {
	if e.cache != nil {
		e.cache.Add(key, v)
	}
}
