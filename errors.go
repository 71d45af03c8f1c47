package semdb

import (
	"fmt"
	"strings"
)

// EntryError records the failure of one classpath entry. It carries the
// entry path and the underlying cause.
type EntryError struct {
	Entry string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Entry, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ConversionError aggregates per-entry failures from one Convert call.
// The successfully converted entries are still available on the Result
// returned alongside it.
type ConversionError struct {
	Entries []*EntryError
}

func (e *ConversionError) Error() string {
	if len(e.Entries) == 1 {
		return fmt.Sprintf("conversion had 1 error: %v", e.Entries[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "conversion had %d errors:", len(e.Entries))
	for _, entry := range e.Entries {
		fmt.Fprintf(&sb, "\n  %v", entry)
	}
	return sb.String()
}
