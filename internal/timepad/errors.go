package timepad

import "errors"

var (
	// ErrMalformedEntryName is returned when a filename does not follow the
	// "YYYY-MM-DD HH-MM-SS[ subject].txt" layout. EntryStore skips such files.
	ErrMalformedEntryName = errors.New("malformed entry name")

	// ErrDirectoryUnavailable is returned when the base directory is missing or unreadable.
	ErrDirectoryUnavailable = errors.New("directory unavailable")

	// ErrNotFound is returned when a query matched no entry.
	ErrNotFound = errors.New("no matching entry")

	// ErrCancelled is returned when a selection was aborted or out of range.
	ErrCancelled = errors.New("selection cancelled")

	// ErrInvalidTimeOverride is returned when an explicit timestamp does not parse.
	ErrInvalidTimeOverride = errors.New("invalid time override")

	// ErrInvalidSubject is returned when a subject contains a path separator or NUL.
	ErrInvalidSubject = errors.New("invalid subject")

	// ErrEmptyQuery is returned when a pattern command is given no query.
	ErrEmptyQuery = errors.New("empty query")

	// ErrTargetExists is returned when a move, copy, rename or backup target
	// exists and overwriting was not requested.
	ErrTargetExists = errors.New("target already exists")

	// ErrInvalidFilename is returned when a move or copy target is not a bare
	// filename inside the base directory.
	ErrInvalidFilename = errors.New("invalid filename")
)
