package urlfor

import (
	"slices"
	"strings"
	"sync"
)

// Table is a registry of named route patterns.
// It is safe for concurrent use.
type Table struct {
	routes map[string]*route
	order  []string
	mu     sync.RWMutex
}

// NewTable creates an empty route table.
func NewTable() *Table {
	return &Table{routes: make(map[string]*route)}
}

// Add registers pattern under name. Later registrations replace earlier ones.
// Patterns use chi syntax: "/posts/{id}", "/posts/{id:[0-9]+}", "/assets/*".
func (t *Table) Add(name, pattern string) {
	if name == "" {
		return
	}
	r := parsePattern(pattern)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.routes[name]; !exists {
		t.order = append(t.order, name)
	}
	t.routes[name] = r
}

// Pattern returns the pattern registered under name.
func (t *Table) Pattern(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[name]
	if !ok {
		return "", false
	}
	return r.pattern, true
}

// Names returns registered route names in registration order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

func (t *Table) lookup(name string) (*route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[name]
	return r, ok
}

// ActionName joins a controller path and an action into a route name.
func ActionName(controller, action string) string {
	return controller + "#" + action
}

type segment struct {
	literal  string
	param    string
	wildcard bool
}

type route struct {
	pattern  string
	segments []segment
}

// parsePattern splits a chi pattern into literal and placeholder segments.
func parsePattern(pattern string) *route {
	r := &route{pattern: pattern}

	for len(pattern) > 0 {
		open := strings.IndexByte(pattern, '{')
		star := strings.IndexByte(pattern, '*')

		if star >= 0 && (open < 0 || star < open) {
			if star > 0 {
				r.segments = append(r.segments, segment{literal: pattern[:star]})
			}
			r.segments = append(r.segments, segment{param: "*", wildcard: true})
			pattern = pattern[star+1:]
			continue
		}

		if open < 0 {
			r.segments = append(r.segments, segment{literal: pattern})
			break
		}

		if open > 0 {
			r.segments = append(r.segments, segment{literal: pattern[:open]})
		}

		// Regexp placeholders may contain braces: {id:[0-9]{3}}.
		depth, end := 0, -1
		for i := open; i < len(pattern); i++ {
			switch pattern[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = i
				break
			}
		}
		if end < 0 {
			r.segments = append(r.segments, segment{literal: pattern[open:]})
			break
		}

		name := pattern[open+1 : end]
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		r.segments = append(r.segments, segment{param: name})
		pattern = pattern[end+1:]
	}

	return r
}
