package semdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/semdb/internal/classfile"
	"github.com/jward/semdb/internal/schema"
)

func greeterClass() *classfile.ClassInfo {
	return &classfile.ClassInfo{
		Name:       "demo/util/Greeter",
		Access:     classfile.AccPublic,
		SuperName:  "java/lang/Object",
		Interfaces: []string{"java/io/Serializable"},
		Fields: []classfile.Member{
			{Name: "greeting", Descriptor: "Ljava/lang/String;", Access: classfile.AccPrivate},
			{Name: "count", Descriptor: "I", Access: classfile.AccProtected},
		},
		Methods: []classfile.Member{
			{Name: "<init>", Descriptor: "()V", Access: classfile.AccPublic},
			{Name: "<clinit>", Descriptor: "()V", Access: classfile.AccStatic},
			{Name: "greet", Descriptor: "(Ljava/lang/String;)Ljava/lang/String;", Access: classfile.AccPublic},
			{Name: "greet", Descriptor: "()Ljava/lang/String;", Access: classfile.AccPublic},
		},
	}
}

func symbolMap(doc *schema.TextDocument) map[string]*schema.SymbolInformation {
	return schema.SymbolIndex(doc)
}

func TestDocumentFromClass_Symbols(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/util/Greeter.class", greeterClass())

	assert.Equal(t, schema.CurrentSchema, doc.Schema)
	assert.Equal(t, "demo/util/Greeter.class", doc.URI)
	assert.Equal(t, schema.LanguageJava, doc.Language)
	assert.Empty(t, doc.Text, "binary artifacts have no source text")
	assert.Empty(t, doc.Occurrences, "no text, no occurrences")

	index := symbolMap(doc)
	pkg := index["demo/util/"]
	require.NotNil(t, pkg)
	assert.Equal(t, schema.KindPackage, pkg.Kind)
	assert.Equal(t, "util", pkg.DisplayName)

	cls := index["demo/util/Greeter#"]
	require.NotNil(t, cls)
	assert.Equal(t, schema.KindClass, cls.Kind)
	assert.Equal(t, "Greeter", cls.DisplayName)
	assert.Equal(t, schema.AccessPublic, cls.Access)
}

func TestDocumentFromClass_Members(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/util/Greeter.class", greeterClass())
	index := symbolMap(doc)

	field := index["demo/util/Greeter#greeting."]
	require.NotNil(t, field)
	assert.Equal(t, schema.KindField, field.Kind)
	assert.Equal(t, schema.AccessPrivate, field.Access)
	require.NotNil(t, field.Signature)
	assert.Equal(t, "java/lang/String#", field.Signature.Ref.Symbol)

	count := index["demo/util/Greeter#count."]
	require.NotNil(t, count)
	assert.Equal(t, schema.AccessProtected, count.Access)
	assert.Equal(t, "scala/Int#", count.Signature.Ref.Symbol)

	ctor := index["demo/util/Greeter#<init>()."]
	require.NotNil(t, ctor)
	assert.Equal(t, schema.KindConstructor, ctor.Kind)

	assert.NotContains(t, index, "demo/util/Greeter#<clinit>().", "static initializers are not symbols")
}

func TestDocumentFromClass_OverloadDisambiguation(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/util/Greeter.class", greeterClass())
	index := symbolMap(doc)

	first := index["demo/util/Greeter#greet()."]
	require.NotNil(t, first)
	assert.Equal(t, schema.KindMethod, first.Kind)

	second := index["demo/util/Greeter#greet(+1)."]
	require.NotNil(t, second)
	assert.Equal(t, "greet", second.DisplayName, "overloads share a display name")

	// (String) -> String: return type applied to the parameter type.
	sig := first.Signature
	require.NotNil(t, sig)
	require.NotNil(t, sig.Applied)
	assert.Equal(t, "java/lang/String#", sig.Applied.Tpe.Ref.Symbol)
	require.Len(t, sig.Applied.Arguments, 1)
	assert.Equal(t, "java/lang/String#", sig.Applied.Arguments[0].Ref.Symbol)

	// () -> String: no parameters, plain return type.
	require.NotNil(t, second.Signature)
	assert.Equal(t, "java/lang/String#", second.Signature.Ref.Symbol)
}

func TestDocumentFromClass_SuperTypes(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/util/Greeter.class", greeterClass())
	cls := symbolMap(doc)["demo/util/Greeter#"]
	require.NotNil(t, cls)
	require.NotNil(t, cls.Signature)
	require.NotNil(t, cls.Signature.Applied)
	assert.Equal(t, "java/lang/Object#", cls.Signature.Applied.Tpe.Ref.Symbol)
	require.Len(t, cls.Signature.Applied.Arguments, 1)
	assert.Equal(t, "java/io/Serializable#", cls.Signature.Applied.Arguments[0].Ref.Symbol)
}

func TestDocumentFromClass_Interface(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/Api.class", &classfile.ClassInfo{
		Name:      "demo/Api",
		Access:    classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract,
		SuperName: "java/lang/Object",
	})
	api := symbolMap(doc)["demo/Api#"]
	require.NotNil(t, api)
	assert.Equal(t, schema.KindInterface, api.Kind)
}

func TestTypeFromDescriptor_Array(t *testing.T) {
	t.Parallel()
	tpe := typeFromDescriptor("[[Ljava/lang/String;")
	require.NotNil(t, tpe)
	require.NotNil(t, tpe.Applied)
	assert.Equal(t, "scala/Array#", tpe.Applied.Tpe.Ref.Symbol)
	inner := tpe.Applied.Arguments[0]
	require.NotNil(t, inner.Applied)
	assert.Equal(t, "scala/Array#", inner.Applied.Tpe.Ref.Symbol)
	assert.Equal(t, "java/lang/String#", inner.Applied.Arguments[0].Ref.Symbol)
}

func TestBuiltinDocuments_RoundTrip(t *testing.T) {
	t.Parallel()
	docs := builtinDocuments()
	data, err := Marshal(docs)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, docs, decoded)
}

func TestDocumentFromClass_PayloadRoundTrip(t *testing.T) {
	t.Parallel()
	doc := documentFromClass("demo/util/Greeter.class", greeterClass())
	data, err := Marshal([]*TextDocument{doc})
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, doc, decoded[0])
}
