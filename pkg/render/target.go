package render

import "fmt"

type targetKind uint8

const (
	targetNone targetKind = iota
	targetOptions
	targetName
	targetPartial
)

// Target is the positional argument of a render call.
// The zero value is the absent target.
type Target struct {
	value any
	opts  Options
	name  string
	kind  targetKind
}

// None is the absent target: render whatever the options say, or the
// current action's template when they say nothing.
func None() Target {
	return Target{}
}

// With passes a complete set of options as the target.
// Any options given alongside it are replaced.
func With(opts Options) Target {
	return Target{kind: targetOptions, opts: opts}
}

// Name is a textual target. A leading slash names a file on disk, a slash
// anywhere else names a template, anything else names an action.
func Name(s string) Target {
	return Target{kind: targetName, name: s}
}

// Partial renders v as a partial: a component, a partial name or a record.
// A nil v is the absent target.
func Partial(v any) Target {
	if v == nil {
		return Target{}
	}
	return Target{kind: targetPartial, value: v}
}

// From builds a Target from a dynamically typed value.
func From(v any) Target {
	switch t := v.(type) {
	case nil:
		return None()
	case Target:
		return t
	case Options:
		return With(t)
	case *Options:
		if t == nil {
			return None()
		}
		return With(*t)
	case string:
		return Name(t)
	}
	return Partial(v)
}

// IsNone reports whether t is the absent target.
func (t Target) IsNone() bool {
	return t.kind == targetNone
}

func (t Target) String() string {
	switch t.kind {
	case targetOptions:
		return "options"
	case targetName:
		return fmt.Sprintf("name(%s)", t.name)
	case targetPartial:
		return fmt.Sprintf("partial(%T)", t.value)
	}
	return "none"
}
