// Package sanitizer cleans untrusted HTML with bluemonday policies.
//
// StripHTML removes all markup, SanitizeHTML keeps basic formatting for
// user-generated content, and SanitizeMarkdown keeps what rendered markdown
// can contain.
package sanitizer
