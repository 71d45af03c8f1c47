package schema

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload wraps every decode failure caused by bytes that do
// not parse as a payload: truncation, corrupt tags, wire-type mismatches.
var ErrMalformedPayload = errors.New("malformed payload")

// UnsupportedSchemaVersionError is returned when a document carries a
// schema version this build does not recognize. It is surfaced to the
// caller rather than skipped: silently ignoring a newer payload would
// look like an empty result.
type UnsupportedSchemaVersionError struct {
	Version Schema
}

func (e *UnsupportedSchemaVersionError) Error() string {
	return fmt.Sprintf("unsupported schema version %d", int32(e.Version))
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
}

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
