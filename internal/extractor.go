package internal

import "fmt"

// ExtractorSource reads one value from the request.
// Returns the value and true if found, or ("", false) if not present.
type ExtractorSource func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
type Extractor []ExtractorSource

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor(sources)
}

// Extract returns the first non-empty value, or ("", false) if all sources miss.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func fromString(get func(Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

func fromCookie(get func(Context) (string, error)) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := get(c)
		return v, err == nil && v != ""
	}
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return fromString(func(c Context) string { return c.Header(name) })
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return fromString(func(c Context) string { return c.Query(name) })
}

// FromParam reads a URL parameter.
func FromParam(name string) ExtractorSource {
	return fromString(func(c Context) string { return c.Param(name) })
}

// FromForm reads a form field.
func FromForm(name string) ExtractorSource {
	return fromString(func(c Context) string { return c.Form(name) })
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return fromCookie(func(c Context) (string, error) { return c.Cookie(name) })
}

// FromCookieSigned reads a signed cookie.
func FromCookieSigned(name string) ExtractorSource {
	return fromCookie(func(c Context) (string, error) { return c.CookieSigned(name) })
}

// FromSession reads a session value. Non-string values are formatted with fmt.Sprint.
func FromSession(key string) ExtractorSource {
	return func(c Context) (string, bool) {
		val, err := c.SessionValue(key)
		if err != nil || val == nil {
			return "", false
		}
		s, ok := val.(string)
		if !ok {
			s = fmt.Sprint(val)
		}
		return s, s != ""
	}
}
