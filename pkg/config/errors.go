package config

import "errors"

var (
	// ErrNilPointer indicates Load was called with a nil destination
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingConfig indicates environment parsing failed
	ErrParsingConfig = errors.New("config: failed to parse")
)
