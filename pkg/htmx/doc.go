// Package htmx detects htmx requests and writes htmx response headers.
//
// Layouts are skipped for fragment requests (WantsFragment), and Redirect
// turns a 3xx into HX-Redirect so htmx performs a full navigation.
package htmx
