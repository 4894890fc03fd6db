package render_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/render"
)

type post struct{ ID int }

func TestNormalize_Targets(t *testing.T) {
	t.Parallel()

	t.Run("leading slash is a file", func(t *testing.T) {
		t.Parallel()
		opts := render.Normalize(render.Name("/foo"), render.Options{}, nil)
		assert.Equal(t, "/foo", opts.File)
		assert.Equal(t, render.PrimaryFile, opts.Primary())
	})

	t.Run("inner slash is a template", func(t *testing.T) {
		t.Parallel()
		opts := render.Normalize(render.Name("a/b"), render.Options{}, nil)
		assert.Equal(t, "a/b", opts.Template)
		assert.Empty(t, opts.Action)
		assert.Equal(t, render.PrimaryTemplate, opts.Primary())
	})

	t.Run("plain name is an action", func(t *testing.T) {
		t.Parallel()
		opts := render.Normalize(render.Name("show"), render.Options{}, nil)
		assert.Equal(t, "show", opts.Action)
		assert.Equal(t, render.PrimaryAction, opts.Primary())
	})

	t.Run("other values are partials", func(t *testing.T) {
		t.Parallel()
		p := post{ID: 7}
		opts := render.Normalize(render.Partial(p), render.Options{}, nil)
		assert.Equal(t, p, opts.Partial)
		assert.Equal(t, render.PrimaryPartial, opts.Primary())
	})

	t.Run("absent target keeps options", func(t *testing.T) {
		t.Parallel()
		in := render.Options{Layout: "admin", Locals: map[string]any{"title": "x"}}
		opts := render.Normalize(render.None(), in, nil)
		assert.Equal(t, in, opts)
		assert.Equal(t, render.PrimaryDefault, opts.Primary())
	})

	t.Run("named target merges over options", func(t *testing.T) {
		t.Parallel()
		opts := render.Normalize(render.Name("edit"), render.Options{Layout: "admin", Status: 422}, nil)
		assert.Equal(t, "edit", opts.Action)
		assert.Equal(t, "admin", opts.Layout)
		assert.Equal(t, 422, opts.Status)
	})
}

func TestNormalize_MappingTarget(t *testing.T) {
	t.Parallel()

	t.Run("mapping replaces options", func(t *testing.T) {
		t.Parallel()
		m := render.Options{Template: "posts/index", Layout: "wide"}
		opts := render.Normalize(render.With(m), render.Options{Layout: "ignored", Action: "x"}, nil)
		assert.Equal(t, m, opts)
	})

	t.Run("mapping equals itself plus interpreted status", func(t *testing.T) {
		t.Parallel()
		m := render.Options{Action: "new", Status: "unprocessable_entity"}
		opts := render.Normalize(render.With(m), render.Options{}, nil)

		want := m
		want.Status = http.StatusUnprocessableEntity
		assert.Equal(t, want, opts)
	})
}

func TestNormalize_ActionWithSlash(t *testing.T) {
	t.Parallel()

	opts := render.Normalize(render.None(), render.Options{Action: "ns/show"}, nil)
	assert.Equal(t, "ns/show", opts.Template)
	assert.Empty(t, opts.Action)

	opts = render.Normalize(render.With(render.Options{Action: "admin/users/index"}), render.Options{}, nil)
	assert.Equal(t, "admin/users/index", opts.Template)
	assert.Empty(t, opts.Action)
}

func TestNormalize_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want int
	}{
		{"created", http.StatusCreated},
		{"404", http.StatusNotFound},
		{http.StatusAccepted, http.StatusAccepted},
		{"bogus", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		opts := render.Normalize(render.Name("show"), render.Options{Status: tt.in}, nil)
		assert.Equal(t, tt.want, opts.Status, "status %v", tt.in)
		assert.Equal(t, tt.want, opts.StatusCode(http.StatusOK))
	}

	opts := render.Normalize(render.Name("show"), render.Options{}, nil)
	assert.Nil(t, opts.Status)
	assert.Equal(t, http.StatusOK, opts.StatusCode(http.StatusOK))
}

func TestNormalize_Update(t *testing.T) {
	t.Parallel()

	called := false
	update := func(_ context.Context, w io.Writer) error {
		called = true
		_, err := io.WriteString(w, "done")
		return err
	}

	opts := render.Normalize(render.None(), render.Options{}, update)
	require.NotNil(t, opts.Update)
	assert.Equal(t, render.PrimaryUpdate, opts.Primary())

	require.NoError(t, opts.Update(context.Background(), io.Discard))
	assert.True(t, called)
}

func TestNormalize_DoesNotShareLocals(t *testing.T) {
	t.Parallel()

	locals := map[string]any{"a": 1}
	opts := render.Normalize(render.None(), render.Options{Locals: locals}, nil)
	opts.Locals["b"] = 2

	assert.Len(t, locals, 1)
}

func TestFrom(t *testing.T) {
	t.Parallel()

	assert.True(t, render.From(nil).IsNone())
	assert.True(t, render.From((*render.Options)(nil)).IsNone())

	opts := render.Normalize(render.From("index"), render.Options{}, nil)
	assert.Equal(t, "index", opts.Action)

	opts = render.Normalize(render.From(render.Options{Text: "hi"}), render.Options{}, nil)
	assert.Equal(t, render.PrimaryText, opts.Primary())

	opts = render.Normalize(render.From(&render.Options{Nothing: true}), render.Options{}, nil)
	assert.Equal(t, render.PrimaryNothing, opts.Primary())

	opts = render.Normalize(render.From(post{ID: 1}), render.Options{}, nil)
	assert.Equal(t, post{ID: 1}, opts.Partial)

	same := render.Name("x")
	assert.Equal(t, same, render.From(same))
}

func TestOptions_Primary(t *testing.T) {
	t.Parallel()

	opts := render.Options{Template: "a/b", Action: "c", Partial: "d", File: "/e"}
	assert.Equal(t, render.PrimaryFile, opts.Primary())

	opts = render.Options{}.WithText("")
	assert.Equal(t, render.PrimaryText, opts.Primary())

	assert.Equal(t, "template", render.PrimaryTemplate.String())
	assert.Equal(t, "unknown", render.Primary(99).String())
}

func TestOptions_Layoutable(t *testing.T) {
	t.Parallel()

	assert.True(t, render.Options{}.Layoutable())
	assert.True(t, render.Options{Action: "show"}.Layoutable())
	assert.False(t, render.Options{Action: "show", NoLayout: true}.Layoutable())
	assert.False(t, render.Options{Partial: "form"}.Layoutable())
	assert.False(t, render.Options{JSON: map[string]int{}}.Layoutable())
}
