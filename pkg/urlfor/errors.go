package urlfor

import "errors"

// Sentinel errors for URL generation.
var (
	// ErrRouteNotFound is returned when no route is registered under the requested name.
	ErrRouteNotFound = errors.New("urlfor: route not found")

	// ErrMissingParam is returned when a route placeholder has no value.
	ErrMissingParam = errors.New("urlfor: missing route parameter")

	// ErrNilRecord is returned when URLForRecord receives a nil record.
	ErrNilRecord = errors.New("urlfor: nil record")
)
