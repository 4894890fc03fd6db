package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/actionkit"
	"github.com/dmitrymomot/actionkit/middlewares"
	"github.com/dmitrymomot/actionkit/pkg/cache"
	"github.com/dmitrymomot/actionkit/pkg/redirect"
	"github.com/dmitrymomot/actionkit/pkg/render"
	"github.com/dmitrymomot/actionkit/pkg/urlfor"
)

var errPostNotFound = errors.New("post not found")

type Post struct {
	ID        int64     `db:"id"         json:"id"`
	Title     string    `db:"title"      json:"title"`
	Body      string    `db:"body"       json:"body"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p Post) RouteName() string   { return urlfor.ActionName("posts", "show") }
func (p Post) RouteKey() string    { return strconv.FormatInt(p.ID, 10) }
func (p Post) PartialPath() string { return "posts/post" }

type postStore struct {
	pool *pgxpool.Pool
}

func (s *postStore) list(ctx context.Context) ([]Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, body, updated_at FROM posts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Post])
}

func (s *postStore) find(ctx context.Context, id int64) (Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, body, updated_at FROM posts WHERE id = $1`, id)
	if err != nil {
		return Post{}, fmt.Errorf("find post: %w", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Post])
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, errPostNotFound
	}
	return p, err
}

func (s *postStore) create(ctx context.Context, title, body string) (Post, error) {
	p := Post{Title: title, Body: body}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (title, body) VALUES ($1, $2) RETURNING id, updated_at`,
		title, body,
	).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *postStore) delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errPostNotFound
	}
	return nil
}

// PostsController serves /posts. The public index is cached until a post
// changes.
type PostsController struct {
	posts *postStore
	pages cache.Cache[middlewares.CachedPage]
}

func (p *PostsController) Routes(r actionkit.Router) {
	r.Use(middlewares.Rescue(
		middlewares.RescueStatus(errPostNotFound, http.StatusNotFound, "Post not found"),
	))

	r.Route("/posts", func(r actionkit.Router) {
		r.Action(http.MethodGet, "/", "index", p.index, middlewares.CacheAction(p.pages))
		r.View("/new", "new")
		r.Action(http.MethodPost, "/", "create", p.create)
		r.Action(http.MethodGet, "/{id}", "show", p.show)
		r.Action(http.MethodGet, "/{id}/attachment", "attachment", p.attachment)
		r.Action(http.MethodDelete, "/{id}", "destroy", p.destroy)
	})
}

func (p *PostsController) index(c actionkit.Context) error {
	posts, err := p.posts.list(c.Request().Context())
	if err != nil {
		return err
	}
	return c.RespondTo(actionkit.Formats{
		actionkit.FormatHTML: func(c actionkit.Context) error {
			return c.RenderView(render.None(), render.Options{Locals: map[string]any{"posts": posts}})
		},
		actionkit.FormatJSON: func(c actionkit.Context) error {
			return c.RenderView(render.With(render.Options{JSON: posts}), render.Options{})
		},
	})
}

func (p *PostsController) show(c actionkit.Context) error {
	post, err := p.posts.find(c.Request().Context(), actionkit.Param[int64](c, "id"))
	if err != nil {
		return err
	}
	if c.FreshWhen(post.RouteKey()+"-"+strconv.FormatInt(post.UpdatedAt.Unix(), 10), post.UpdatedAt) {
		return nil
	}
	return c.RenderView(render.None(), render.Options{Locals: map[string]any{"post": post}})
}

func (p *PostsController) create(c actionkit.Context) error {
	title := strings.TrimSpace(c.Form("title"))
	body := strings.TrimSpace(c.Form("body"))
	if title == "" {
		return c.RenderView(render.Name("new"), render.Options{
			Status: "unprocessable_entity",
			Locals: map[string]any{"error": c.T("posts.errors.title_blank"), "body": body},
		})
	}

	post, err := p.posts.create(c.Request().Context(), title, body)
	if err != nil {
		return err
	}
	p.expireIndex(c)

	c.SetFlash("notice", c.T("posts.flash.created", map[string]any{"title": post.Title}))
	return c.RedirectTo(redirect.Record(post), redirect.WithStatus("see_other"))
}

func (p *PostsController) attachment(c actionkit.Context) error {
	id := actionkit.Param[int64](c, "id")
	return c.SendStored(fmt.Sprintf("posts/%d/attachment", id),
		actionkit.WithDisposition(actionkit.DispositionInline),
	)
}

func (p *PostsController) destroy(c actionkit.Context) error {
	if err := p.posts.delete(c.Request().Context(), actionkit.Param[int64](c, "id")); err != nil {
		return err
	}
	p.expireIndex(c)

	if c.IsHTMX() {
		return c.RenderView(render.With(render.Options{Nothing: true}), render.Options{})
	}
	c.SetFlash("notice", c.T("posts.flash.deleted"))
	return c.RedirectTo(redirect.Route(urlfor.Params{"action": "index"}), redirect.WithStatus("see_other"))
}

func (p *PostsController) expireIndex(c actionkit.Context) {
	ctx := c.Request().Context()
	for _, key := range []string{"action:/posts/", "action:/posts/#htmx"} {
		if err := middlewares.ExpireAction(ctx, p.pages, key); err != nil {
			c.LogWarn("failed to expire posts index", "error", err)
		}
	}
}

// PagesController serves static pages that only need a template.
type PagesController struct {
	pages cache.Cache[middlewares.CachedPage]
}

func (p *PagesController) Routes(r actionkit.Router) {
	r.GET("/", func(c actionkit.Context) error {
		return c.RedirectTo(redirect.To("/posts/"), redirect.WithStatus("moved_permanently"))
	})
	r.View("/about", "about", middlewares.CacheAction(p.pages, middlewares.WithCacheTTL(time.Hour)))
}
