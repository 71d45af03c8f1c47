// Package schema defines the semantic database document model and its
// binary wire codec. A payload is a sequence of TextDocument messages
// encoded in protobuf wire format; the field numbers declared here are
// the interchange contract and must never be renumbered.
//
// Every message carries an opaque tail of unknown fields captured during
// decoding, so a payload written by a newer producer survives a
// decode/re-encode cycle through an older consumer byte-for-byte.
package schema

// Schema is the payload format version. Decoders check it before trusting
// anything else in the document.
type Schema int32

const (
	SchemaUnspecified Schema = 0
	SchemaLegacy      Schema = 1
	SchemaVersion4    Schema = 4
)

// CurrentSchema is the version written by this tool.
const CurrentSchema = SchemaVersion4

func (s Schema) String() string {
	switch s {
	case SchemaLegacy:
		return "LEGACY"
	case SchemaVersion4:
		return "SEMANTICDB4"
	default:
		return "UNKNOWN_SCHEMA"
	}
}

// Language identifies the source language a document was produced from.
type Language int32

const (
	LanguageUnknown Language = 0
	LanguageScala   Language = 1
	LanguageJava    Language = 2
)

func (l Language) String() string {
	switch l {
	case LanguageScala:
		return "SCALA"
	case LanguageJava:
		return "JAVA"
	default:
		return "UNKNOWN_LANGUAGE"
	}
}

// SymbolKind classifies a definition.
type SymbolKind int32

const (
	KindUnspecified   SymbolKind = 0
	KindPackage       SymbolKind = 1
	KindClass         SymbolKind = 2
	KindObject        SymbolKind = 3
	KindTrait         SymbolKind = 4
	KindInterface     SymbolKind = 5
	KindMethod        SymbolKind = 6
	KindConstructor   SymbolKind = 7
	KindField         SymbolKind = 8
	KindParameter     SymbolKind = 9
	KindTypeParameter SymbolKind = 10
	KindLocal         SymbolKind = 11
)

func (k SymbolKind) String() string {
	switch k {
	case KindPackage:
		return "PACKAGE"
	case KindClass:
		return "CLASS"
	case KindObject:
		return "OBJECT"
	case KindTrait:
		return "TRAIT"
	case KindInterface:
		return "INTERFACE"
	case KindMethod:
		return "METHOD"
	case KindConstructor:
		return "CONSTRUCTOR"
	case KindField:
		return "FIELD"
	case KindParameter:
		return "PARAMETER"
	case KindTypeParameter:
		return "TYPE_PARAMETER"
	case KindLocal:
		return "LOCAL"
	default:
		return "UNSPECIFIED"
	}
}

// Role distinguishes a defining occurrence from a referencing one.
type Role int32

const (
	RoleUnspecified Role = 0
	RoleDefinition  Role = 1
	RoleReference   Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleDefinition:
		return "DEFINITION"
	case RoleReference:
		return "REFERENCE"
	default:
		return "UNSPECIFIED"
	}
}

// Access is the declared visibility of a definition.
type Access int32

const (
	AccessUnspecified Access = 0
	AccessPrivate     Access = 1
	AccessProtected   Access = 2
	AccessPublic      Access = 3
)

func (a Access) String() string {
	switch a {
	case AccessPrivate:
		return "PRIVATE"
	case AccessProtected:
		return "PROTECTED"
	case AccessPublic:
		return "PUBLIC"
	default:
		return "UNSPECIFIED"
	}
}

// Severity grades a Diagnostic.
type Severity int32

const (
	SeverityUnspecified Severity = 0
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInfo        Severity = 3
	SeverityHint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityHint:
		return "HINT"
	default:
		return "UNSPECIFIED"
	}
}

// TextDocument describes one source file or binary artifact.
//
// Wire fields: schema=1, uri=2, text=3, symbols=5, occurrences=6,
// diagnostics=7, language=10, synthetics=12.
type TextDocument struct {
	Schema      Schema
	URI         string
	Text        string
	Symbols     []*SymbolInformation
	Occurrences []*Occurrence
	Diagnostics []*Diagnostic
	Language    Language
	Synthetics  []*Synthetic

	unknown []byte
}

// SymbolInformation describes one definition. Symbol is a globally unique
// string; two entries with the same Symbol denote the same logical
// definition regardless of which document they appear in.
//
// Wire fields: symbol=1, kind=3, display_name=5, language=16,
// signature=17, access=18.
type SymbolInformation struct {
	Symbol      string
	Kind        SymbolKind
	DisplayName string
	Language    Language
	Signature   *Type
	Access      Access

	unknown []byte
}

// Occurrence ties a source range to a symbol.
//
// Wire fields: range=1, symbol=2, role=3.
type Occurrence struct {
	Range  Range
	Symbol string
	Role   Role

	unknown []byte
}

// Range is a zero-based, half-open source span.
//
// Wire fields: start_line=1, start_character=2, end_line=3,
// end_character=4.
type Range struct {
	StartLine      int32
	StartCharacter int32
	EndLine        int32
	EndCharacter   int32

	unknown []byte
}

// Before reports whether r starts before other (line, then column).
func (r Range) Before(other Range) bool {
	if r.StartLine != other.StartLine {
		return r.StartLine < other.StartLine
	}
	return r.StartCharacter < other.StartCharacter
}

// Type is a recursive tagged union. Exactly one of Ref, Applied or Param
// is set; the zero Type is invalid on the wire and skipped when encoding.
//
// Wire fields (oneof): type_ref=1, applied_type=2, type_parameter_ref=3.
type Type struct {
	Ref     *TypeRef
	Applied *AppliedType
	Param   *TypeParameterRef

	unknown []byte
}

// TypeRef names a type by symbol, optionally with type arguments.
//
// Wire fields: symbol=1, arguments=2.
type TypeRef struct {
	Symbol    string
	Arguments []*Type

	unknown []byte
}

// AppliedType applies a constructor type to arguments.
//
// Wire fields: tpe=1, arguments=2.
type AppliedType struct {
	Tpe       *Type
	Arguments []*Type

	unknown []byte
}

// TypeParameterRef refers to a type parameter in scope by symbol.
//
// Wire fields: symbol=1.
type TypeParameterRef struct {
	Symbol string

	unknown []byte
}

// Diagnostic is a compiler message attached to a range.
//
// Wire fields: range=1, severity=2, message=3.
type Diagnostic struct {
	Range    Range
	Severity Severity
	Message  string

	unknown []byte
}

// Synthetic records compiler-generated code at a source range.
//
// Wire fields: range=1, text=2.
type Synthetic struct {
	Range Range
	Text  string

	unknown []byte
}

// SymbolIndex builds a lookup table from symbol string to its
// SymbolInformation. Later entries win on duplicate symbols, matching how
// consumers resolve cross-references by value.
func SymbolIndex(doc *TextDocument) map[string]*SymbolInformation {
	index := make(map[string]*SymbolInformation, len(doc.Symbols))
	for _, info := range doc.Symbols {
		index[info.Symbol] = info
	}
	return index
}
