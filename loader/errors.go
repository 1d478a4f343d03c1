package loader

import "errors"

var (
	// ErrNotRegularFile is returned when a path names a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrEmptyExtension is returned by Scan when no extension is given.
	ErrEmptyExtension = errors.New("file extension is required")
)
