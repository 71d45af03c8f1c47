package semdb

import "github.com/jward/semdb/internal/schema"

// builtinDocuments covers the definitions the standard library's own
// artifacts never declare: the top and bottom types plus the primitive
// value types method signatures refer to. Appended to every converted
// classpath unless suppressed with WithBuiltins(false).
func builtinDocuments() []*schema.TextDocument {
	classes := []struct {
		name string
		kind schema.SymbolKind
	}{
		{"Any", schema.KindClass},
		{"AnyVal", schema.KindClass},
		{"AnyRef", schema.KindClass},
		{"Nothing", schema.KindClass},
		{"Null", schema.KindClass},
		{"Unit", schema.KindClass},
		{"Boolean", schema.KindClass},
		{"Byte", schema.KindClass},
		{"Short", schema.KindClass},
		{"Char", schema.KindClass},
		{"Int", schema.KindClass},
		{"Long", schema.KindClass},
		{"Float", schema.KindClass},
		{"Double", schema.KindClass},
		{"Array", schema.KindClass},
	}

	symbols := []*schema.SymbolInformation{
		{
			Symbol:      "scala/",
			Kind:        schema.KindPackage,
			DisplayName: "scala",
			Language:    schema.LanguageScala,
			Access:      schema.AccessPublic,
		},
	}
	for _, cls := range classes {
		symbols = append(symbols, &schema.SymbolInformation{
			Symbol:      "scala/" + cls.name + "#",
			Kind:        cls.kind,
			DisplayName: cls.name,
			Language:    schema.LanguageScala,
			Access:      schema.AccessPublic,
		})
	}

	return []*schema.TextDocument{
		{
			Schema:   schema.CurrentSchema,
			URI:      "scala/builtins",
			Language: schema.LanguageScala,
			Symbols:  symbols,
		},
	}
}
