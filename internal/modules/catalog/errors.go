package catalog

import "errors"

var (
	// ErrInvalidLine marks one malformed catalogue line. The line is dropped
	// with a warning; the rest of the text still parses.
	ErrInvalidLine = errors.New("invalid slot type line")

	ErrEmptyCatalogue = errors.New("slot catalogue is empty")
)
