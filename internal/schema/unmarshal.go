package schema

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Unmarshal decodes a payload produced by Marshal (or any schema-compatible
// producer) into its documents. Fields the decoder does not know are kept
// as opaque bytes on the enclosing message and re-emitted by Marshal, so
// newer payloads survive a decode/re-encode cycle intact.
//
// The payload wrapper itself is fixed framing with a single field; schema
// evolution happens inside TextDocument and its nested messages.
func Unmarshal(data []byte) ([]*TextDocument, error) {
	var docs []*TextDocument
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]
		if num != 1 || typ != protowire.BytesType {
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, malformed(protowire.ParseError(m))
			}
			b = b[m:]
			continue
		}
		body, m := protowire.ConsumeBytes(b)
		if m < 0 {
			return nil, malformed(protowire.ParseError(m))
		}
		b = b[m:]

		doc, err := unmarshalDocument(body)
		if err != nil {
			return nil, err
		}
		switch doc.Schema {
		case SchemaLegacy, SchemaVersion4:
		case SchemaUnspecified:
			return nil, malformedf("document %q has no schema version", doc.URI)
		default:
			return nil, &UnsupportedSchemaVersionError{Version: doc.Schema}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// fieldScanner walks the fields of one message body, handing known fields
// to the caller and collecting everything else into an unknown tail.
type fieldScanner struct {
	b       []byte
	num     protowire.Number
	typ     protowire.Type
	val     []byte // raw value bytes for the current field
	unknown []byte
	err     error
}

// next advances to the next field. It returns false at end of input or on
// error; the caller checks s.err afterwards.
func (s *fieldScanner) next() bool {
	if s.err != nil || len(s.b) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(s.b)
	if n < 0 {
		s.err = malformed(protowire.ParseError(n))
		return false
	}
	m := protowire.ConsumeFieldValue(num, typ, s.b[n:])
	if m < 0 {
		s.err = malformed(protowire.ParseError(m))
		return false
	}
	s.num, s.typ = num, typ
	s.val = s.b[n : n+m]
	s.b = s.b[n+m:]
	return true
}

// keep records the current field as unknown, tag bytes included.
func (s *fieldScanner) keep() {
	s.unknown = append(s.unknown, protowire.AppendTag(nil, s.num, s.typ)...)
	s.unknown = append(s.unknown, s.val...)
}

func (s *fieldScanner) varint() uint64 {
	if s.typ != protowire.VarintType {
		s.err = malformedf("field %d: expected varint, got wire type %d", s.num, s.typ)
		return 0
	}
	v, n := protowire.ConsumeVarint(s.val)
	if n < 0 {
		s.err = malformed(protowire.ParseError(n))
		return 0
	}
	return v
}

func (s *fieldScanner) bytes() []byte {
	if s.typ != protowire.BytesType {
		s.err = malformedf("field %d: expected bytes, got wire type %d", s.num, s.typ)
		return nil
	}
	v, n := protowire.ConsumeBytes(s.val)
	if n < 0 {
		s.err = malformed(protowire.ParseError(n))
		return nil
	}
	return v
}

func unmarshalDocument(b []byte) (*TextDocument, error) {
	doc := &TextDocument{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			doc.Schema = Schema(s.varint())
		case 2:
			doc.URI = string(s.bytes())
		case 3:
			doc.Text = string(s.bytes())
		case 5:
			info, err := unmarshalSymbolInformation(s.bytes())
			if err != nil {
				return nil, err
			}
			doc.Symbols = append(doc.Symbols, info)
		case 6:
			occ, err := unmarshalOccurrence(s.bytes())
			if err != nil {
				return nil, err
			}
			doc.Occurrences = append(doc.Occurrences, occ)
		case 7:
			diag, err := unmarshalDiagnostic(s.bytes())
			if err != nil {
				return nil, err
			}
			doc.Diagnostics = append(doc.Diagnostics, diag)
		case 10:
			doc.Language = Language(s.varint())
		case 12:
			syn, err := unmarshalSynthetic(s.bytes())
			if err != nil {
				return nil, err
			}
			doc.Synthetics = append(doc.Synthetics, syn)
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	doc.unknown = s.unknown
	return doc, nil
}

func unmarshalSymbolInformation(b []byte) (*SymbolInformation, error) {
	info := &SymbolInformation{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			info.Symbol = string(s.bytes())
		case 3:
			info.Kind = SymbolKind(s.varint())
		case 5:
			info.DisplayName = string(s.bytes())
		case 16:
			info.Language = Language(s.varint())
		case 17:
			t, err := unmarshalType(s.bytes())
			if err != nil {
				return nil, err
			}
			info.Signature = t
		case 18:
			info.Access = Access(s.varint())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	info.unknown = s.unknown
	return info, nil
}

func unmarshalOccurrence(b []byte) (*Occurrence, error) {
	occ := &Occurrence{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			r, err := unmarshalRange(s.bytes())
			if err != nil {
				return nil, err
			}
			occ.Range = r
		case 2:
			occ.Symbol = string(s.bytes())
		case 3:
			occ.Role = Role(s.varint())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	occ.unknown = s.unknown
	return occ, nil
}

func unmarshalRange(b []byte) (Range, error) {
	var r Range
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			r.StartLine = int32(s.varint())
		case 2:
			r.StartCharacter = int32(s.varint())
		case 3:
			r.EndLine = int32(s.varint())
		case 4:
			r.EndCharacter = int32(s.varint())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return Range{}, s.err
	}
	r.unknown = s.unknown
	return r, nil
}

func unmarshalType(b []byte) (*Type, error) {
	t := &Type{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			ref, err := unmarshalTypeRef(s.bytes())
			if err != nil {
				return nil, err
			}
			t.Ref = ref
		case 2:
			at, err := unmarshalAppliedType(s.bytes())
			if err != nil {
				return nil, err
			}
			t.Applied = at
		case 3:
			p, err := unmarshalTypeParameterRef(s.bytes())
			if err != nil {
				return nil, err
			}
			t.Param = p
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	t.unknown = s.unknown
	return t, nil
}

func unmarshalTypeRef(b []byte) (*TypeRef, error) {
	ref := &TypeRef{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			ref.Symbol = string(s.bytes())
		case 2:
			arg, err := unmarshalType(s.bytes())
			if err != nil {
				return nil, err
			}
			ref.Arguments = append(ref.Arguments, arg)
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	ref.unknown = s.unknown
	return ref, nil
}

func unmarshalAppliedType(b []byte) (*AppliedType, error) {
	at := &AppliedType{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			t, err := unmarshalType(s.bytes())
			if err != nil {
				return nil, err
			}
			at.Tpe = t
		case 2:
			arg, err := unmarshalType(s.bytes())
			if err != nil {
				return nil, err
			}
			at.Arguments = append(at.Arguments, arg)
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	at.unknown = s.unknown
	return at, nil
}

func unmarshalTypeParameterRef(b []byte) (*TypeParameterRef, error) {
	p := &TypeParameterRef{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			p.Symbol = string(s.bytes())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	p.unknown = s.unknown
	return p, nil
}

func unmarshalDiagnostic(b []byte) (*Diagnostic, error) {
	diag := &Diagnostic{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			r, err := unmarshalRange(s.bytes())
			if err != nil {
				return nil, err
			}
			diag.Range = r
		case 2:
			diag.Severity = Severity(s.varint())
		case 3:
			diag.Message = string(s.bytes())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	diag.unknown = s.unknown
	return diag, nil
}

func unmarshalSynthetic(b []byte) (*Synthetic, error) {
	syn := &Synthetic{}
	s := &fieldScanner{b: b}
	for s.next() {
		switch s.num {
		case 1:
			r, err := unmarshalRange(s.bytes())
			if err != nil {
				return nil, err
			}
			syn.Range = r
		case 2:
			syn.Text = string(s.bytes())
		default:
			s.keep()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	syn.unknown = s.unknown
	return syn, nil
}
