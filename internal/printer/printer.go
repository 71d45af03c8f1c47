// Package printer renders a decoded document as stable, human-readable
// text. Condensed mode is the interchange-grade summary: its output is
// byte-identical across runs for the same document, with symbols sorted
// by symbol string and occurrences by range start. Raw mode dumps the
// structure field by field in schema field order and never reorders or
// omits anything.
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jward/semdb/internal/schema"
)

// Mode selects the rendering style.
type Mode int

const (
	ModeCondensed Mode = iota
	ModeRaw
)

// ParseMode converts a CLI string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "condensed":
		return ModeCondensed, nil
	case "raw":
		return ModeRaw, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want condensed or raw)", s)
	}
}

// Document renders one document to w.
func Document(w io.Writer, doc *schema.TextDocument, mode Mode) error {
	switch mode {
	case ModeCondensed:
		return condensed(w, doc)
	case ModeRaw:
		return raw(w, doc)
	default:
		return fmt.Errorf("unknown mode %d", mode)
	}
}

func condensed(w io.Writer, doc *schema.TextDocument) error {
	index := schema.SymbolIndex(doc)

	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "Schema => %s\n", doc.Schema)
	fmt.Fprintf(w, "Uri => %s\n", doc.URI)
	fmt.Fprintf(w, "Text => %s\n", textPresence(doc))
	fmt.Fprintf(w, "Language => %s\n", doc.Language)
	fmt.Fprintf(w, "Symbols => %d entries\n", len(doc.Symbols))
	fmt.Fprintf(w, "Occurrences => %d entries\n", len(doc.Occurrences))

	if len(doc.Symbols) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Symbols:")
		sorted := make([]*schema.SymbolInformation, len(doc.Symbols))
		copy(sorted, doc.Symbols)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Symbol < sorted[j].Symbol
		})
		for _, info := range sorted {
			fmt.Fprintf(w, "%s => %s %s\n", info.Symbol, kindLabel(info.Kind), displayName(info))
			for _, sym := range referencedTypeSymbols(info, doc) {
				fmt.Fprintf(w, "  %s\n", sym)
			}
		}
	}

	if len(doc.Occurrences) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Occurrences:")
		sorted := make([]*schema.Occurrence, len(doc.Occurrences))
		copy(sorted, doc.Occurrences)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Range.Before(sorted[j].Range)
		})
		for _, occ := range sorted {
			arrow := "=>"
			if occ.Role == schema.RoleDefinition {
				arrow = "<="
			}
			r := occ.Range
			fmt.Fprintf(w, "[%d:%d..%d:%d): %s %s %s\n",
				r.StartLine, r.StartCharacter, r.EndLine, r.EndCharacter,
				occurrenceName(doc, index, occ), arrow, occ.Symbol)
		}
	}
	return nil
}

func textPresence(doc *schema.TextDocument) string {
	if doc.Text == "" {
		return "empty"
	}
	return "non-empty"
}

// kindLabel is the lowercase kind used in condensed output.
func kindLabel(k schema.SymbolKind) string {
	return strings.ToLower(k.String())
}

func displayName(info *schema.SymbolInformation) string {
	if info.DisplayName != "" {
		return info.DisplayName
	}
	return trailingName(info.Symbol)
}

// trailingName extracts the last identifier from a symbol string,
// stripping descriptor suffixes like "()." , "." and "#".
func trailingName(symbol string) string {
	s := strings.TrimRight(symbol, "#.)($ ")
	if i := strings.LastIndexAny(s, "/.#"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return symbol
	}
	return s
}

// occurrenceName resolves the display name of an occurrence: the source
// text slice when text is available, else the referenced symbol's display
// name, else the trailing identifier of the symbol string.
func occurrenceName(doc *schema.TextDocument, index map[string]*schema.SymbolInformation, occ *schema.Occurrence) string {
	if doc.Text != "" {
		if slice, ok := sliceRange(doc.Text, occ.Range); ok {
			return slice
		}
	}
	if info, ok := index[occ.Symbol]; ok {
		return displayName(info)
	}
	return trailingName(occ.Symbol)
}

// sliceRange cuts a zero-based half-open range out of text. Multi-line
// ranges are joined as-is.
func sliceRange(text string, r schema.Range) (string, bool) {
	if r.StartLine < 0 || r.StartCharacter < 0 || r.EndCharacter < 0 || r.EndLine < r.StartLine {
		return "", false
	}
	lines := strings.Split(text, "\n")
	if int(r.StartLine) >= len(lines) || int(r.EndLine) >= len(lines) {
		return "", false
	}
	if r.StartLine == r.EndLine {
		line := lines[r.StartLine]
		if int(r.StartCharacter) > len(line) || int(r.EndCharacter) > len(line) || r.StartCharacter > r.EndCharacter {
			return "", false
		}
		return line[r.StartCharacter:r.EndCharacter], true
	}
	first := lines[r.StartLine]
	if int(r.StartCharacter) > len(first) {
		return "", false
	}
	parts := []string{first[r.StartCharacter:]}
	for l := r.StartLine + 1; l < r.EndLine; l++ {
		parts = append(parts, lines[l])
	}
	last := lines[r.EndLine]
	if int(r.EndCharacter) > len(last) {
		return "", false
	}
	parts = append(parts, last[:r.EndCharacter])
	return strings.Join(parts, "\n"), true
}

// referencedTypeSymbols collects the symbols directly referenced by a
// symbol's signature, in declaration (traversal) order, deduplicated.
// When every referenced symbol has a definition occurrence in this
// document they are sorted by source position instead.
func referencedTypeSymbols(info *schema.SymbolInformation, doc *schema.TextDocument) []string {
	if info.Signature == nil {
		return nil
	}
	var ordered []string
	seen := make(map[string]bool)
	var walk func(t *schema.Type)
	walk = func(t *schema.Type) {
		if t == nil {
			return
		}
		switch {
		case t.Ref != nil:
			if t.Ref.Symbol != "" && !seen[t.Ref.Symbol] {
				seen[t.Ref.Symbol] = true
				ordered = append(ordered, t.Ref.Symbol)
			}
			for _, arg := range t.Ref.Arguments {
				walk(arg)
			}
		case t.Applied != nil:
			walk(t.Applied.Tpe)
			for _, arg := range t.Applied.Arguments {
				walk(arg)
			}
		case t.Param != nil:
			if t.Param.Symbol != "" && !seen[t.Param.Symbol] {
				seen[t.Param.Symbol] = true
				ordered = append(ordered, t.Param.Symbol)
			}
		}
	}
	walk(info.Signature)

	// Source-position order applies only when every symbol has a position.
	positions := make(map[string]schema.Range)
	for _, occ := range doc.Occurrences {
		if _, ok := positions[occ.Symbol]; !ok {
			positions[occ.Symbol] = occ.Range
		}
	}
	for _, sym := range ordered {
		if _, ok := positions[sym]; !ok {
			return ordered
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return positions[ordered[i]].Before(positions[ordered[j]])
	})
	return ordered
}

func raw(w io.Writer, doc *schema.TextDocument) error {
	fmt.Fprintf(w, "schema: %s\n", doc.Schema)
	fmt.Fprintf(w, "uri: %q\n", doc.URI)
	fmt.Fprintf(w, "text: %q\n", doc.Text)
	for _, info := range doc.Symbols {
		fmt.Fprintln(w, "symbols {")
		fmt.Fprintf(w, "  symbol: %q\n", info.Symbol)
		fmt.Fprintf(w, "  kind: %s\n", info.Kind)
		fmt.Fprintf(w, "  display_name: %q\n", info.DisplayName)
		fmt.Fprintf(w, "  language: %s\n", info.Language)
		if info.Signature != nil {
			rawType(w, "  ", "signature", info.Signature)
		}
		fmt.Fprintf(w, "  access: %s\n", info.Access)
		fmt.Fprintln(w, "}")
	}
	for _, occ := range doc.Occurrences {
		fmt.Fprintln(w, "occurrences {")
		rawRange(w, "  ", occ.Range)
		fmt.Fprintf(w, "  symbol: %q\n", occ.Symbol)
		fmt.Fprintf(w, "  role: %s\n", occ.Role)
		fmt.Fprintln(w, "}")
	}
	for _, diag := range doc.Diagnostics {
		fmt.Fprintln(w, "diagnostics {")
		rawRange(w, "  ", diag.Range)
		fmt.Fprintf(w, "  severity: %s\n", diag.Severity)
		fmt.Fprintf(w, "  message: %q\n", diag.Message)
		fmt.Fprintln(w, "}")
	}
	fmt.Fprintf(w, "language: %s\n", doc.Language)
	for _, syn := range doc.Synthetics {
		fmt.Fprintln(w, "synthetics {")
		rawRange(w, "  ", syn.Range)
		fmt.Fprintf(w, "  text: %q\n", syn.Text)
		fmt.Fprintln(w, "}")
	}
	return nil
}

func rawRange(w io.Writer, indent string, r schema.Range) {
	fmt.Fprintf(w, "%srange { start_line: %d start_character: %d end_line: %d end_character: %d }\n",
		indent, r.StartLine, r.StartCharacter, r.EndLine, r.EndCharacter)
}

func rawType(w io.Writer, indent, label string, t *schema.Type) {
	fmt.Fprintf(w, "%s%s {\n", indent, label)
	inner := indent + "  "
	switch {
	case t.Ref != nil:
		fmt.Fprintf(w, "%stype_ref { symbol: %q }\n", inner, t.Ref.Symbol)
		for _, arg := range t.Ref.Arguments {
			rawType(w, inner, "arguments", arg)
		}
	case t.Applied != nil:
		fmt.Fprintf(w, "%sapplied_type {\n", inner)
		if t.Applied.Tpe != nil {
			rawType(w, inner+"  ", "tpe", t.Applied.Tpe)
		}
		for _, arg := range t.Applied.Arguments {
			rawType(w, inner+"  ", "arguments", arg)
		}
		fmt.Fprintf(w, "%s}\n", inner)
	case t.Param != nil:
		fmt.Fprintf(w, "%stype_parameter_ref { symbol: %q }\n", inner, t.Param.Symbol)
	}
	fmt.Fprintf(w, "%s}\n", indent)
}
