package semdb

import (
	"errors"
	"io"

	"github.com/jward/semdb/internal/locator"
	"github.com/jward/semdb/internal/printer"
	"github.com/jward/semdb/internal/schema"
)

// Extension is the payload file extension.
const Extension = locator.Extension

// ErrMalformedPayload matches every decode failure caused by bytes that
// do not parse as a payload.
var ErrMalformedPayload = schema.ErrMalformedPayload

// Render modes accepted by Render.
const (
	ModeCondensed = printer.ModeCondensed
	ModeRaw       = printer.ModeRaw
)

// Marshal encodes documents as one payload.
func Marshal(docs []*TextDocument) ([]byte, error) {
	return schema.Marshal(docs)
}

// Unmarshal decodes a payload into its documents.
func Unmarshal(data []byte) ([]*TextDocument, error) {
	return schema.Unmarshal(data)
}

// Locate discovers payloads under the given inputs (payload files,
// directories, archives), calling fn for each in stable traversal order.
// It returns the number of payloads found.
func Locate(inputs []string, opts LocateOptions, fn func(Payload) error) (int, error) {
	return locator.Locate(inputs, opts, fn)
}

// Render writes one document to w in the requested mode.
func Render(w io.Writer, doc *TextDocument, mode RenderMode) error {
	return printer.Document(w, doc, mode)
}

// ParseRenderMode converts "condensed" or "raw" into a RenderMode.
func ParseRenderMode(s string) (RenderMode, error) {
	return printer.ParseMode(s)
}

// IsVersionMismatch reports whether err is an unsupported schema version
// failure. Version mismatches are never skipped silently: a consumer that
// ignored them would present misleadingly empty output.
func IsVersionMismatch(err error) bool {
	var verr *UnsupportedSchemaVersionError
	return errors.As(err, &verr)
}
