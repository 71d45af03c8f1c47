package schema

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Marshal encodes a set of documents as one payload. Each document becomes
// a length-delimited record under field 1 of the payload wrapper, so the
// payload itself is a valid protobuf message.
//
// Structural invariants are enforced here rather than at construction
// time: every document must carry a schema version, and a document with
// no text must not carry occurrences (occurrences need source positions).
func Marshal(docs []*TextDocument) ([]byte, error) {
	var out []byte
	for _, doc := range docs {
		if err := validate(doc); err != nil {
			return nil, fmt.Errorf("marshal %q: %w", doc.URI, err)
		}
		body := appendDocument(nil, doc)
		out = protowire.AppendTag(out, 1, protowire.BytesType)
		out = protowire.AppendBytes(out, body)
	}
	return out, nil
}

func validate(doc *TextDocument) error {
	if doc.Schema == SchemaUnspecified {
		return fmt.Errorf("document has no schema version")
	}
	if doc.Text == "" && len(doc.Occurrences) > 0 {
		return fmt.Errorf("document has %d occurrence(s) but no text", len(doc.Occurrences))
	}
	return nil
}

func appendDocument(b []byte, doc *TextDocument) []byte {
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(doc.Schema))
	if doc.URI != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, doc.URI)
	}
	if doc.Text != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, doc.Text)
	}
	for _, info := range doc.Symbols {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSymbolInformation(nil, info))
	}
	for _, occ := range doc.Occurrences {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, appendOccurrence(nil, occ))
	}
	for _, diag := range doc.Diagnostics {
		b = protowire.AppendTag(b, 7, protowire.BytesType)
		b = protowire.AppendBytes(b, appendDiagnostic(nil, diag))
	}
	if doc.Language != LanguageUnknown {
		b = protowire.AppendTag(b, 10, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(doc.Language))
	}
	for _, syn := range doc.Synthetics {
		b = protowire.AppendTag(b, 12, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSynthetic(nil, syn))
	}
	return append(b, doc.unknown...)
}

func appendSymbolInformation(b []byte, info *SymbolInformation) []byte {
	if info.Symbol != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, info.Symbol)
	}
	if info.Kind != KindUnspecified {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(info.Kind))
	}
	if info.DisplayName != "" {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, info.DisplayName)
	}
	if info.Language != LanguageUnknown {
		b = protowire.AppendTag(b, 16, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(info.Language))
	}
	if info.Signature != nil {
		b = protowire.AppendTag(b, 17, protowire.BytesType)
		b = protowire.AppendBytes(b, appendType(nil, info.Signature))
	}
	if info.Access != AccessUnspecified {
		b = protowire.AppendTag(b, 18, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(info.Access))
	}
	return append(b, info.unknown...)
}

func appendOccurrence(b []byte, occ *Occurrence) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, appendRange(nil, occ.Range))
	if occ.Symbol != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, occ.Symbol)
	}
	if occ.Role != RoleUnspecified {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(occ.Role))
	}
	return append(b, occ.unknown...)
}

func appendRange(b []byte, r Range) []byte {
	if r.StartLine != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.StartLine))
	}
	if r.StartCharacter != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.StartCharacter))
	}
	if r.EndLine != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.EndLine))
	}
	if r.EndCharacter != 0 {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(r.EndCharacter))
	}
	return append(b, r.unknown...)
}

func appendType(b []byte, t *Type) []byte {
	switch {
	case t.Ref != nil:
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, appendTypeRef(nil, t.Ref))
	case t.Applied != nil:
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, appendAppliedType(nil, t.Applied))
	case t.Param != nil:
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		var body []byte
		if t.Param.Symbol != "" {
			body = protowire.AppendTag(body, 1, protowire.BytesType)
			body = protowire.AppendString(body, t.Param.Symbol)
		}
		body = append(body, t.Param.unknown...)
		b = protowire.AppendBytes(b, body)
	}
	return append(b, t.unknown...)
}

func appendTypeRef(b []byte, ref *TypeRef) []byte {
	if ref.Symbol != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, ref.Symbol)
	}
	for _, arg := range ref.Arguments {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, appendType(nil, arg))
	}
	return append(b, ref.unknown...)
}

func appendAppliedType(b []byte, at *AppliedType) []byte {
	if at.Tpe != nil {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, appendType(nil, at.Tpe))
	}
	for _, arg := range at.Arguments {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, appendType(nil, arg))
	}
	return append(b, at.unknown...)
}

func appendDiagnostic(b []byte, diag *Diagnostic) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, appendRange(nil, diag.Range))
	if diag.Severity != SeverityUnspecified {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(diag.Severity))
	}
	if diag.Message != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, diag.Message)
	}
	return append(b, diag.unknown...)
}

func appendSynthetic(b []byte, syn *Synthetic) []byte {
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, appendRange(nil, syn.Range))
	if syn.Text != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, syn.Text)
	}
	return append(b, syn.unknown...)
}
