package render

import (
	"context"
	"io"
	"maps"
)

// UpdateFunc writes a response body directly, bypassing template lookup.
// It is attached to Options by Normalize when the caller supplies one.
type UpdateFunc func(ctx context.Context, w io.Writer) error

// Primary identifies which Options field decides what gets rendered.
type Primary int

const (
	// PrimaryDefault renders the template of the current action.
	PrimaryDefault Primary = iota
	PrimaryUpdate
	PrimaryNothing
	PrimaryText
	PrimaryJSON
	PrimaryXML
	PrimaryInline
	PrimaryFile
	PrimaryTemplate
	PrimaryAction
	PrimaryPartial
)

var primaryNames = [...]string{
	PrimaryDefault:  "default",
	PrimaryUpdate:   "update",
	PrimaryNothing:  "nothing",
	PrimaryText:     "text",
	PrimaryJSON:     "json",
	PrimaryXML:      "xml",
	PrimaryInline:   "inline",
	PrimaryFile:     "file",
	PrimaryTemplate: "template",
	PrimaryAction:   "action",
	PrimaryPartial:  "partial",
}

func (p Primary) String() string {
	if p < 0 || int(p) >= len(primaryNames) {
		return "unknown"
	}
	return primaryNames[p]
}

// Options is the canonical description of what to render.
//
// Callers fill in any subset; Normalize merges the positional target into it
// and interprets Status. Several target fields may be set at once, Primary
// decides which one wins.
type Options struct {
	// Partial is a component, a partial name or a record with a partial path.
	Partial any

	// Status is an int, a numeric string or a symbolic name such as
	// "not_found". After Normalize it always holds an int.
	Status any

	// JSON and XML are encoded as the response body when set.
	JSON any
	XML  any

	// Locals are passed to the template as top-level data.
	Locals map[string]any

	Update UpdateFunc

	File     string
	Template string
	Action   string
	Text     string
	Inline   string

	// Layout overrides the controller and application layout.
	Layout      string
	ContentType string

	NoLayout bool
	Nothing  bool

	// textSet distinguishes an empty Text body from no Text at all.
	textSet bool
}

// WithText returns a copy of o that renders s as plain text, even when s is empty.
func (o Options) WithText(s string) Options {
	o.Text = s
	o.textSet = true
	return o
}

// Primary returns the authoritative target kind.
// The order is fixed: Update, Nothing, Text, JSON, XML, Inline, File,
// Template, Action, Partial.
func (o Options) Primary() Primary {
	switch {
	case o.Update != nil:
		return PrimaryUpdate
	case o.Nothing:
		return PrimaryNothing
	case o.Text != "" || o.textSet:
		return PrimaryText
	case o.JSON != nil:
		return PrimaryJSON
	case o.XML != nil:
		return PrimaryXML
	case o.Inline != "":
		return PrimaryInline
	case o.File != "":
		return PrimaryFile
	case o.Template != "":
		return PrimaryTemplate
	case o.Action != "":
		return PrimaryAction
	case o.Partial != nil:
		return PrimaryPartial
	}
	return PrimaryDefault
}

// StatusCode returns the interpreted status, or def when none was given.
// It expects normalized options.
func (o Options) StatusCode(def int) int {
	if code, ok := o.Status.(int); ok && code > 0 {
		return code
	}
	return def
}

// Layoutable reports whether the primary target is wrapped in a layout.
func (o Options) Layoutable() bool {
	if o.NoLayout {
		return false
	}
	switch o.Primary() {
	case PrimaryDefault, PrimaryFile, PrimaryTemplate, PrimaryAction:
		return true
	}
	return false
}

// clone returns a copy that does not share the Locals map with o.
func (o Options) clone() Options {
	if o.Locals != nil {
		o.Locals = maps.Clone(o.Locals)
	}
	return o
}

// PartialPather is implemented by records that know which partial renders
// them, e.g. "posts/post" for posts/_post. The record is passed to the partial
// as "object".
type PartialPather interface {
	PartialPath() string
}
