package catalog

import "errors"

var (
	// ErrNotFound indicates the catalog has no program or episode with the
	// requested identifier.
	ErrNotFound = errors.New("not found in catalog")
	// ErrMalformed indicates the catalog response did not match the expected
	// schema. Malformed upstream data never propagates past this package.
	ErrMalformed = errors.New("malformed catalog response")
)
