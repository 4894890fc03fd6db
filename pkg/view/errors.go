package view

import "errors"

var (
	// ErrTemplateNotFound indicates no view exists under the requested name.
	ErrTemplateNotFound = errors.New("view: template not found")

	// ErrLayoutNotFound indicates no layout exists under the requested name.
	ErrLayoutNotFound = errors.New("view: layout not found")

	// ErrRenderFailed indicates a view failed to parse or execute.
	ErrRenderFailed = errors.New("view: render failed")

	// ErrInvalidFrontMatter indicates a markdown view has malformed YAML front matter.
	ErrInvalidFrontMatter = errors.New("view: invalid front matter")
)
