package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"net/http"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/actionkit/pkg/htmx"
	"github.com/dmitrymomot/actionkit/pkg/render"
	"github.com/dmitrymomot/actionkit/pkg/view"
)

// Content types written by the render pipeline.
const (
	contentTypeHTML       = "text/html; charset=utf-8"
	contentTypeText       = "text/plain; charset=utf-8"
	contentTypeJSON       = "application/json; charset=utf-8"
	contentTypeXML        = "application/xml; charset=utf-8"
	contentTypeJavaScript = "text/javascript; charset=utf-8"
)

// DefaultLayout is the application layout used when neither the render call
// nor the controller names one. It is skipped when the engine has no such
// layout.
const DefaultLayout = "application"

// body is a prepared render: what to write and how to describe it.
type body struct {
	component   templ.Component
	meta        map[string]any
	contentType string
	layoutable  bool
}

func (c *requestContext) Render(code int, component Component) error {
	if c.Written() {
		return ErrDoubleRender
	}
	var buf bytes.Buffer
	if err := component.Render(c.request.Context(), &buf); err != nil {
		return err
	}
	return c.write(code, contentTypeHTML, buf.Bytes())
}

func (c *requestContext) RenderView(target render.Target, opts render.Options, update ...render.UpdateFunc) error {
	if c.Written() {
		return ErrDoubleRender
	}

	var fn render.UpdateFunc
	if len(update) > 0 {
		fn = update[0]
	}
	o := render.Normalize(target, opts, fn)

	out, contentType, err := c.renderBody(o)
	if err != nil {
		return err
	}
	if o.Primary() == render.PrimaryNothing {
		return c.writeEmpty(o.StatusCode(http.StatusOK), contentType)
	}
	return c.write(o.StatusCode(http.StatusOK), contentType, out)
}

func (c *requestContext) RenderToString(target render.Target, opts render.Options) (string, error) {
	o := render.Normalize(target, opts, nil)
	out, _, err := c.renderBody(o)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// writeEmpty writes the status and content type with an empty body.
func (c *requestContext) writeEmpty(code int, contentType string) error {
	if contentType != "" {
		c.response.Header().Set("Content-Type", contentType)
	}
	c.response.WriteHeader(code)
	return nil
}

// renderBody renders normalized options into memory so that a failing
// template never leaves a half written response.
func (c *requestContext) renderBody(o render.Options) ([]byte, string, error) {
	b, err := c.prepare(o)
	if err != nil {
		return nil, "", err
	}

	component := b.component
	if b.layoutable && o.Layoutable() && !htmx.WantsFragment(c.request) {
		layout, err := c.layoutFor(o)
		if err != nil {
			return nil, "", err
		}
		if layout != nil {
			data := c.locals(o)
			if len(b.meta) > 0 {
				data[view.KeyMeta] = b.meta
			}
			component = view.Wrap(layout, component, data)
		}
	}

	contentType := b.contentType
	if o.ContentType != "" {
		contentType = o.ContentType
	}

	var buf bytes.Buffer
	if component != nil {
		if err := component.Render(c.request.Context(), &buf); err != nil {
			return nil, "", err
		}
	}
	return buf.Bytes(), contentType, nil
}

// prepare maps the primary option to a component.
func (c *requestContext) prepare(o render.Options) (body, error) {
	switch o.Primary() {
	case render.PrimaryUpdate:
		return body{component: templ.ComponentFunc(o.Update), contentType: contentTypeJavaScript}, nil

	case render.PrimaryNothing:
		return body{}, nil

	case render.PrimaryText:
		return body{component: raw([]byte(o.Text)), contentType: contentTypeText}, nil

	case render.PrimaryJSON:
		data, err := encodeJSON(o.JSON)
		if err != nil {
			return body{}, err
		}
		return body{component: raw(data), contentType: contentTypeJSON}, nil

	case render.PrimaryXML:
		data, err := encodeXML(o.XML)
		if err != nil {
			return body{}, err
		}
		return body{component: raw(data), contentType: contentTypeXML}, nil

	case render.PrimaryInline:
		v, err := c.app.views.Inline(o.Inline)
		if err != nil {
			return body{}, err
		}
		return c.viewBody(v, o), nil

	case render.PrimaryFile:
		v, err := c.app.views.File(o.File)
		if err != nil {
			return body{}, err
		}
		return c.viewBody(v, o), nil

	case render.PrimaryTemplate:
		return c.lookup(o.Template, o)

	case render.PrimaryAction:
		return c.lookup(path.Join(c.ControllerPath(), o.Action), o)

	case render.PrimaryPartial:
		return c.partial(o)
	}

	if c.ActionName() == "" {
		return body{}, ErrNoAction
	}
	return c.lookup(path.Join(c.ControllerPath(), c.ActionName()), o)
}

func (c *requestContext) lookup(name string, o render.Options) (body, error) {
	v, err := c.app.views.Lookup(name)
	if err != nil {
		return body{}, err
	}
	return c.viewBody(v, o), nil
}

func (c *requestContext) viewBody(v *view.View, o render.Options) body {
	return body{
		component:   v.Component(c.locals(o)),
		meta:        v.Meta(),
		contentType: contentTypeHTML,
		layoutable:  true,
	}
}

// partial renders a component as is, a named partial from dir/_name, or a
// record through its partial path with the record as "object".
func (c *requestContext) partial(o render.Options) (body, error) {
	switch p := o.Partial.(type) {
	case templ.Component:
		return body{component: p, contentType: contentTypeHTML}, nil

	case string:
		v, err := c.app.views.Lookup(c.partialName(p))
		if err != nil {
			return body{}, err
		}
		return body{component: v.Component(c.locals(o)), contentType: contentTypeHTML}, nil

	case render.PartialPather:
		v, err := c.app.views.Lookup(c.partialName(p.PartialPath()))
		if err != nil {
			return body{}, err
		}
		data := c.locals(o)
		data["object"] = p
		return body{component: v.Component(data), contentType: contentTypeHTML}, nil
	}
	return body{}, fmt.Errorf("%w: %T", ErrInvalidPartial, o.Partial)
}

// partialName turns "posts/post" into "posts/_post"; a bare name is looked
// up in the controller's directory.
func (c *requestContext) partialName(name string) string {
	dir, file := path.Split(strings.TrimPrefix(name, "/"))
	if dir == "" {
		dir = c.ControllerPath()
	}
	if !strings.HasPrefix(file, "_") {
		file = "_" + file
	}
	return path.Join(dir, file)
}

// layoutFor picks the render option layout, then the controller layout, then
// DefaultLayout. Named layouts must exist; the default one is optional.
func (c *requestContext) layoutFor(o render.Options) (*view.View, error) {
	name := o.Layout
	if name == "" && c.state.controller != nil {
		name = c.state.controller.layout
	}
	if name != "" {
		return c.app.views.Layout(name)
	}

	name = c.app.defaultLayout
	if name == "" || !c.app.views.HasLayout(name) {
		return nil, nil
	}
	return c.app.views.Layout(name)
}

// locals returns template data: a copy of the caller's locals plus the
// context as "c".
func (c *requestContext) locals(o render.Options) map[string]any {
	data := make(map[string]any, len(o.Locals)+1)
	maps.Copy(data, o.Locals)
	data[view.KeyContext] = c
	return data
}

func (c *requestContext) write(code int, contentType string, data []byte) error {
	h := c.response.Header()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	c.response.WriteHeader(code)
	if c.request.Method == http.MethodHead {
		return nil
	}
	_, err := c.response.Write(data)
	return err
}

func (c *requestContext) JSON(code int, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return err
	}
	return c.write(code, contentTypeJSON, data)
}

func (c *requestContext) XML(code int, v any) error {
	data, err := encodeXML(v)
	if err != nil {
		return err
	}
	return c.write(code, contentTypeXML, data)
}

func (c *requestContext) String(code int, s string) error {
	return c.write(code, contentTypeText, []byte(s))
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

// raw is a component that writes fixed bytes.
func raw(data []byte) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// encodeJSON passes strings and byte slices through and marshals the rest.
func encodeJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	case json.RawMessage:
		return t, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return data, nil
}

func encodeXML(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return t, nil
	}
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render xml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
