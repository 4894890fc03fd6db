package render

import (
	"strings"

	"github.com/dmitrymomot/actionkit/pkg/status"
)

// Normalize merges target into opts and returns the canonical options.
//
// It never fails: shapes it does not recognize pass through unchanged.
// The caller's Locals map is never modified.
func Normalize(target Target, opts Options, update UpdateFunc) Options {
	switch target.kind {
	case targetOptions:
		opts = target.opts
	case targetName:
		switch {
		case strings.HasPrefix(target.name, "/"):
			opts.File = target.name
		case strings.Contains(target.name, "/"):
			opts.Template = target.name
		default:
			opts.Action = target.name
		}
	case targetPartial:
		opts.Partial = target.value
	case targetNone:
	}

	opts = opts.clone()

	if opts.Action != "" && strings.Contains(opts.Action, "/") {
		opts.Template = opts.Action
		opts.Action = ""
	}

	if opts.Status != nil {
		opts.Status = status.Interpret(opts.Status)
	}

	if update != nil {
		opts.Update = update
	}

	return opts
}
