// Package status interprets symbolic and numeric HTTP status indicators.
//
// Handlers and redirect targets may name a status the way people say it
// ("not_found", "moved_permanently", "MovedPermanently") or pass it as a
// number or numeric string. Interpret turns any of those into the integer
// code written on the wire.
//
//	status.Interpret("found")             // 302
//	status.Interpret("moved_permanently") // 301
//	status.Interpret("422")               // 422
//	status.Interpret(201)                 // 201
//	status.Interpret("no_such_status")    // 500
package status

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Unknown is the code returned for names that do not match any status.
const Unknown = http.StatusInternalServerError

var (
	byName = make(map[string]int)
	byCode = make(map[int]string)
)

func init() {
	for code := 100; code < 600; code++ {
		text := http.StatusText(code)
		if text == "" {
			continue
		}
		name := symbolize(text)
		byName[name] = code
		byCode[code] = name
	}
}

// Interpret converts v into an HTTP status code.
// Integer kinds, named integer types included, are returned as is. Strings that start with digits are parsed
// ("404", "404 Not Found"). Any other string is looked up by name in
// snake_case or CamelCase; unknown names and unsupported types yield Unknown.
func Interpret(v any) int {
	switch s := v.(type) {
	case int:
		return s
	case int8:
		return int(s)
	case int16:
		return int(s)
	case int32:
		return int(s)
	case int64:
		return int(s)
	case uint:
		return int(s)
	case uint16:
		return int(s)
	case uint32:
		return int(s)
	case uint64:
		return int(s)
	case float64:
		return int(s)
	case string:
		return fromString(s)
	case interface{ String() string }:
		return fromString(s.String())
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return int(rv.Int())
	case rv.CanUint():
		return int(rv.Uint())
	case rv.Kind() == reflect.String:
		return fromString(rv.String())
	}
	return Unknown
}

// Name returns the snake_case symbol for code, or an empty string.
func Name(code int) string {
	return byCode[code]
}

// Lookup reports the code registered for name.
func Lookup(name string) (int, bool) {
	code, ok := byName[normalizeName(name)]
	return code, ok
}

// IsRedirect reports whether code is a 3xx status.
func IsRedirect(code int) bool {
	return code >= 300 && code < 400
}

func fromString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end > 0 {
		code, err := strconv.Atoi(s[:end])
		if err != nil {
			return Unknown
		}
		return code
	}

	if code, ok := Lookup(s); ok {
		return code
	}
	return Unknown
}

// normalizeName accepts "not_found", "Not Found", "NotFound" and ":not_found".
func normalizeName(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), ":")
	if strings.ContainsAny(s, " _-'") || strings.ToLower(s) == s || strings.ToUpper(s) == s {
		return symbolize(s)
	}

	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// symbolize turns a status text such as "I'm a teapot" into "im_a_teapot".
func symbolize(text string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '\'':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if underscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			underscore = false
			b.WriteRune(r)
		default:
			underscore = true
		}
	}
	return b.String()
}
