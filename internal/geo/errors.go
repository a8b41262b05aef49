package geo

import "errors"

// Error kinds shared by the loader, transformer and views. Callers tell
// them apart with errors.Is; components wrap them with context.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedInput    = errors.New("malformed input")
	ErrMissingFeatures   = errors.New("collection has no features member")
	ErrMissingProperty   = errors.New("feature is missing the sort property")
	ErrEmptyCollection   = errors.New("collection has no features")
)
