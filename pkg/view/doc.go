// Package view loads, parses and caches templates from an fs.FS.
//
// Views are looked up by name without extension; ".html", ".tmpl" and ".md"
// are tried in that order. HTML views are html/template files. Markdown views
// may start with YAML front matter, are executed as text templates, converted
// with goldmark and sanitized before they are written:
//
//	---
//	title: About
//	---
//	# {{.meta.title}}
//
// Every view renders as a templ.Component, so views, layouts and templ
// components can be mixed freely:
//
//	engine := view.New(os.DirFS("views"))
//	page, _ := engine.Lookup("pages/about")
//	layout, _ := engine.Layout("application")
//	view.Wrap(layout, page.Component(data), data).Render(ctx, w)
//
// Template data is a map. The engine adds "meta" (front matter) to every view
// and "yield" (the wrapped content) to layouts.
package view
