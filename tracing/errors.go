package tracing

import "errors"

var (
	// ErrInvalidEndpoint is returned when the export endpoint is not an absolute URL.
	ErrInvalidEndpoint = errors.New("tracing endpoint must be an absolute http(s) URL")
)
