package view

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"maps"
	texttemplate "text/template"

	"github.com/a-h/templ"
)

// Data keys set by the engine.
const (
	KeyMeta    = "meta"
	KeyYield   = "yield"
	KeyContext = "c"
)

// View is a parsed template. It is immutable and safe for concurrent use.
type View struct {
	meta     map[string]any
	html     *template.Template
	markdown *texttemplate.Template
	convert  func([]byte) ([]byte, error)
	name     string
}

// Name returns the file the view was parsed from.
func (v *View) Name() string {
	return v.name
}

// Meta returns the view's front matter.
func (v *View) Meta() map[string]any {
	return v.meta
}

// Execute writes the view to w. data is not modified. The view's front
// matter is exposed as "meta" unless it is empty and data already has one.
func (v *View) Execute(w io.Writer, data map[string]any) error {
	d := make(map[string]any, len(data)+1)
	maps.Copy(d, data)
	if _, ok := d[KeyMeta]; !ok || len(v.meta) > 0 {
		d[KeyMeta] = v.meta
	}

	if v.html != nil {
		if err := v.html.Execute(w, d); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrRenderFailed, v.name, err)
		}
		return nil
	}

	var src bytes.Buffer
	if err := v.markdown.Execute(&src, d); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRenderFailed, v.name, err)
	}
	out, err := v.convert(src.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRenderFailed, v.name, err)
	}
	_, err = w.Write(out)
	return err
}

// Component returns the view bound to data as a templ component.
func (v *View) Component(data map[string]any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return v.Execute(w, data)
	})
}

// Wrap renders content inside layout. The rendered content is available to
// the layout as {{.yield}}.
func Wrap(layout *View, content templ.Component, data map[string]any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := content.Render(ctx, &buf); err != nil {
			return err
		}

		d := make(map[string]any, len(data)+1)
		maps.Copy(d, data)
		d[KeyYield] = template.HTML(buf.String()) //nolint:gosec // rendered by a trusted view
		return layout.Execute(w, d)
	})
}
