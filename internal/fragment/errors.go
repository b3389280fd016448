package fragment

import "errors"

// Codec construction errors.
var (
	// ErrEmptySeparator is returned when a separator option is the empty string.
	ErrEmptySeparator = errors.New("invalid separator: must not be empty")

	// ErrSameSeparators is returned when the parameter and value separators are equal.
	// Named tokens could not be told apart from positional ones.
	ErrSameSeparators = errors.New("invalid separators: parameter and value separators must differ")

	// ErrReservedSeparator is returned when a separator collides with the hash
	// or the crawlable marker.
	ErrReservedSeparator = errors.New("invalid separator: '#' and '!' are reserved")
)
