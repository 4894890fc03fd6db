// Package render turns the loosely shaped arguments of a render call into
// one canonical Options value.
//
// A render call takes a positional Target and an Options value. Target is a
// tagged union built with explicit constructors:
//
//	render.None()                          // render the current action
//	render.Name("show")                    // Options{Action: "show"}
//	render.Name("posts/show")              // Options{Template: "posts/show"}
//	render.Name("/srv/app/views/x.html")   // Options{File: "/srv/app/views/x.html"}
//	render.Partial(card)                   // Options{Partial: card}
//	render.With(render.Options{Text: "ok"})
//
// Normalize merges the target into the options, moves an action that
// contains a slash to Template, interprets Status with pkg/status and
// attaches the optional update callback:
//
//	opts := render.Normalize(render.Name("edit"), render.Options{Status: "unprocessable_entity"}, nil)
//	// opts.Action == "edit", opts.Status == 422
//
// Options.Primary reports which field decides what gets rendered when more
// than one is set.
package render
