package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jward/semdb/internal/schema"
)

func render(t *testing.T, doc *schema.TextDocument, mode Mode) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Document(&sb, doc, mode))
	return sb.String()
}

func mainDoc() *schema.TextDocument {
	return &schema.TextDocument{
		Schema:   schema.CurrentSchema,
		URI:      "Test.scala",
		Language: schema.LanguageScala,
		Symbols: []*schema.SymbolInformation{
			{
				Symbol:      "_empty_.Test.main().",
				Kind:        schema.KindMethod,
				DisplayName: "main",
				Language:    schema.LanguageScala,
			},
		},
		Occurrences: []*schema.Occurrence{
			{
				Range:  schema.Range{StartLine: 1, StartCharacter: 6, EndLine: 1, EndCharacter: 10},
				Symbol: "_empty_.Test.main().",
				Role:   schema.RoleDefinition,
			},
		},
	}
}

func TestCondensed_DefinitionLine(t *testing.T) {
	t.Parallel()
	out := render(t, mainDoc(), ModeCondensed)
	assert.Contains(t, out, "[1:6..1:10): main <= _empty_.Test.main().")
}

func TestCondensed_Summary(t *testing.T) {
	t.Parallel()
	out := render(t, mainDoc(), ModeCondensed)
	assert.Contains(t, out, "Summary:")
	assert.Contains(t, out, "Schema => SEMANTICDB4")
	assert.Contains(t, out, "Uri => Test.scala")
	assert.Contains(t, out, "Text => empty")
	assert.Contains(t, out, "Language => SCALA")
	assert.Contains(t, out, "Symbols => 1 entries")
	assert.Contains(t, out, "Occurrences => 1 entries")
}

func TestCondensed_OccurrenceOrdering(t *testing.T) {
	t.Parallel()
	doc := mainDoc()
	doc.Symbols = nil
	doc.Occurrences = []*schema.Occurrence{
		{
			Range:  schema.Range{StartLine: 2, StartCharacter: 4, EndLine: 2, EndCharacter: 7},
			Symbol: "a/Second#",
			Role:   schema.RoleReference,
		},
		{
			Range:  schema.Range{StartLine: 1, StartCharacter: 6, EndLine: 1, EndCharacter: 11},
			Symbol: "a/First#",
			Role:   schema.RoleReference,
		},
	}

	out := render(t, doc, ModeCondensed)
	first := strings.Index(out, "[1:6..1:11)")
	second := strings.Index(out, "[2:4..2:7)")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "the (1,6) occurrence renders before (2,4)")
}

func TestCondensed_ReferenceArrow(t *testing.T) {
	t.Parallel()
	doc := mainDoc()
	doc.Occurrences[0].Role = schema.RoleReference
	out := render(t, doc, ModeCondensed)
	assert.Contains(t, out, "main => _empty_.Test.main().")
}

func TestCondensed_NameFromText(t *testing.T) {
	t.Parallel()
	doc := mainDoc()
	doc.Text = "class Test {\n  def frobnicate(): Unit = ()\n}"
	doc.Occurrences = []*schema.Occurrence{
		{
			Range:  schema.Range{StartLine: 1, StartCharacter: 6, EndLine: 1, EndCharacter: 16},
			Symbol: "_empty_.Test.frobnicate().",
			Role:   schema.RoleDefinition,
		},
	}
	out := render(t, doc, ModeCondensed)
	assert.Contains(t, out, "[1:6..1:16): frobnicate <= _empty_.Test.frobnicate().")
}

func TestCondensed_OutOfBoundsRange(t *testing.T) {
	t.Parallel()
	// A decodable payload can carry range coordinates that point outside
	// the text, including values that wrap negative through the varint
	// encoding. Rendering must fall back to the symbol-derived name
	// rather than slice the text.
	var rng []byte
	rng = protowire.AppendTag(rng, 1, protowire.VarintType)
	rng = protowire.AppendVarint(rng, 0xFFFFFFFF) // start_line: -1
	rng = protowire.AppendTag(rng, 2, protowire.VarintType)
	rng = protowire.AppendVarint(rng, 6)
	rng = protowire.AppendTag(rng, 3, protowire.VarintType)
	rng = protowire.AppendVarint(rng, 0)
	rng = protowire.AppendTag(rng, 4, protowire.VarintType)
	rng = protowire.AppendVarint(rng, 10)

	var occ []byte
	occ = protowire.AppendTag(occ, 1, protowire.BytesType)
	occ = protowire.AppendBytes(occ, rng)
	occ = protowire.AppendTag(occ, 2, protowire.BytesType)
	occ = protowire.AppendString(occ, "_empty_.Hostile#")
	occ = protowire.AppendTag(occ, 3, protowire.VarintType)
	occ = protowire.AppendVarint(occ, uint64(schema.RoleReference))

	var body []byte
	body = protowire.AppendTag(body, 1, protowire.VarintType)
	body = protowire.AppendVarint(body, uint64(schema.SchemaVersion4))
	body = protowire.AppendTag(body, 2, protowire.BytesType)
	body = protowire.AppendString(body, "Hostile.scala")
	body = protowire.AppendTag(body, 3, protowire.BytesType)
	body = protowire.AppendString(body, "class Hostile {}")
	body = protowire.AppendTag(body, 6, protowire.BytesType)
	body = protowire.AppendBytes(body, occ)

	var payload []byte
	payload = protowire.AppendTag(payload, 1, protowire.BytesType)
	payload = protowire.AppendBytes(payload, body)

	docs, err := schema.Unmarshal(payload)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.EqualValues(t, -1, docs[0].Occurrences[0].Range.StartLine)

	out := render(t, docs[0], ModeCondensed)
	assert.Contains(t, out, "Hostile => _empty_.Hostile#")
}

func TestCondensed_SymbolsSortedWithTypeReferences(t *testing.T) {
	t.Parallel()
	doc := &schema.TextDocument{
		Schema:   schema.CurrentSchema,
		URI:      "lib/Box.class",
		Language: schema.LanguageJava,
		Symbols: []*schema.SymbolInformation{
			{
				Symbol:      "lib/Box#get().",
				Kind:        schema.KindMethod,
				DisplayName: "get",
				Signature: &schema.Type{Applied: &schema.AppliedType{
					Tpe:       &schema.Type{Ref: &schema.TypeRef{Symbol: "java/lang/Object#"}},
					Arguments: []*schema.Type{{Param: &schema.TypeParameterRef{Symbol: "lib/Box#[T]"}}},
				}},
			},
			{
				Symbol:      "lib/Box#",
				Kind:        schema.KindClass,
				DisplayName: "Box",
			},
		},
	}

	out := render(t, doc, ModeCondensed)
	classAt := strings.Index(out, "lib/Box# => class Box")
	methodAt := strings.Index(out, "lib/Box#get(). => method get")
	require.GreaterOrEqual(t, classAt, 0)
	require.GreaterOrEqual(t, methodAt, 0)
	assert.Less(t, classAt, methodAt, "symbols sort by symbol string")

	// The method lists its directly referenced type symbols, indented.
	assert.Contains(t, out, "\n  java/lang/Object#\n")
	assert.Contains(t, out, "\n  lib/Box#[T]\n")
}

func TestCondensed_Deterministic(t *testing.T) {
	t.Parallel()
	doc := mainDoc()
	first := render(t, doc, ModeCondensed)
	for j := 0; j < 10; j++ {
		assert.Equal(t, first, render(t, doc, ModeCondensed))
	}
}

func TestCondensed_RoundTripStable(t *testing.T) {
	t.Parallel()
	// Rendering is invariant under an encode/decode cycle.
	doc := mainDoc()
	doc.Text = "class Test {\n  def main(): Unit = ()\n}"
	data, err := schema.Marshal([]*schema.TextDocument{doc})
	require.NoError(t, err)
	docs, err := schema.Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, render(t, doc, ModeCondensed), render(t, docs[0], ModeCondensed))
}

func TestRaw_FieldOrder(t *testing.T) {
	t.Parallel()
	doc := mainDoc()
	doc.Diagnostics = []*schema.Diagnostic{
		{Range: schema.Range{EndCharacter: 4}, Severity: schema.SeverityWarning, Message: "unused"},
	}
	out := render(t, doc, ModeRaw)

	// Schema field order: schema, uri, text, symbols, occurrences,
	// diagnostics, language.
	want := []string{
		"schema: SEMANTICDB4",
		`uri: "Test.scala"`,
		`text: ""`,
		"symbols {",
		"occurrences {",
		"diagnostics {",
		"\nlanguage: SCALA",
	}
	last := -1
	for _, marker := range want {
		at := strings.Index(out, marker)
		require.GreaterOrEqual(t, at, 0, "missing %q", marker)
		assert.Greater(t, at, last, "%q out of order", marker)
		last = at
	}

	assert.Contains(t, out, `  symbol: "_empty_.Test.main()."`)
	assert.Contains(t, out, "  kind: METHOD")
	assert.Contains(t, out, "  role: DEFINITION")
	assert.Contains(t, out, "range { start_line: 1 start_character: 6 end_line: 1 end_character: 10 }")
	assert.Contains(t, out, `  severity: WARNING`)
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	m, err := ParseMode("condensed")
	require.NoError(t, err)
	assert.Equal(t, ModeCondensed, m)
	m, err = ParseMode("raw")
	require.NoError(t, err)
	assert.Equal(t, ModeRaw, m)
	_, err = ParseMode("fancy")
	require.Error(t, err)
}
