package semdb

import (
	"github.com/jward/semdb/internal/classfile"
	"github.com/jward/semdb/internal/locator"
	"github.com/jward/semdb/internal/printer"
	"github.com/jward/semdb/internal/schema"
)

// Public type aliases for internal types used across the API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type TextDocument = schema.TextDocument
type SymbolInformation = schema.SymbolInformation
type Occurrence = schema.Occurrence
type Range = schema.Range
type Type = schema.Type
type TypeRef = schema.TypeRef
type AppliedType = schema.AppliedType
type TypeParameterRef = schema.TypeParameterRef
type Diagnostic = schema.Diagnostic
type Synthetic = schema.Synthetic

type Schema = schema.Schema
type Language = schema.Language
type SymbolKind = schema.SymbolKind
type Role = schema.Role
type Access = schema.Access

type Payload = locator.Payload
type LocateOptions = locator.Options
type RenderMode = printer.Mode

type ClassInfo = classfile.ClassInfo
type ClassReader = classfile.Reader

// UnsupportedSchemaVersionError re-exports the schema-level version error
// so callers can match it without importing internal packages.
type UnsupportedSchemaVersionError = schema.UnsupportedSchemaVersionError
