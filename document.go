package semdb

import (
	"fmt"
	"strings"

	"github.com/jward/semdb/internal/classfile"
	"github.com/jward/semdb/internal/schema"
)

// documentFromClass maps parsed class facts onto the document model.
// Symbol strings follow the slash/hash convention: "a/b/" for packages,
// "a/b/C#" for types, "a/b/C#m()." for methods with "(+n)" overload
// disambiguators, "a/b/C#f." for fields.
func documentFromClass(uri string, info *classfile.ClassInfo) *schema.TextDocument {
	var symbols []*schema.SymbolInformation

	pkg, simpleName := splitBinaryName(info.Name)
	if pkg != "" {
		symbols = append(symbols, &schema.SymbolInformation{
			Symbol:      pkg + "/",
			Kind:        schema.KindPackage,
			DisplayName: lastSegment(pkg),
			Language:    schema.LanguageJava,
			Access:      schema.AccessPublic,
		})
	}

	classSymbol := info.Name + "#"
	symbols = append(symbols, &schema.SymbolInformation{
		Symbol:      classSymbol,
		Kind:        classKind(info.Access),
		DisplayName: simpleName,
		Language:    schema.LanguageJava,
		Access:      accessOf(info.Access),
		Signature:   superSignature(info),
	})

	for _, field := range info.Fields {
		symbols = append(symbols, &schema.SymbolInformation{
			Symbol:      classSymbol + field.Name + ".",
			Kind:        schema.KindField,
			DisplayName: field.Name,
			Language:    schema.LanguageJava,
			Access:      accessOf(field.Access),
			Signature:   typeFromDescriptor(field.Descriptor),
		})
	}

	// Overloads share a name; later ones get a "(+n)" disambiguator so
	// every symbol string stays unique within the document.
	overloads := make(map[string]int)
	for _, method := range info.Methods {
		if method.Name == "<clinit>" {
			continue
		}
		n := overloads[method.Name]
		overloads[method.Name]++
		disambiguator := "()"
		if n > 0 {
			disambiguator = fmt.Sprintf("(+%d)", n)
		}
		kind := schema.KindMethod
		if method.Name == "<init>" {
			kind = schema.KindConstructor
		}
		symbols = append(symbols, &schema.SymbolInformation{
			Symbol:      classSymbol + method.Name + disambiguator + ".",
			Kind:        kind,
			DisplayName: method.Name,
			Language:    schema.LanguageJava,
			Access:      accessOf(method.Access),
			Signature:   methodSignature(method.Descriptor),
		})
	}

	// Binary artifacts carry no source text, hence no occurrences.
	return &schema.TextDocument{
		Schema:   schema.CurrentSchema,
		URI:      uri,
		Language: schema.LanguageJava,
		Symbols:  symbols,
	}
}

func splitBinaryName(name string) (pkg, simple string) {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func classKind(access uint16) schema.SymbolKind {
	if access&classfile.AccInterface != 0 {
		return schema.KindInterface
	}
	return schema.KindClass
}

func accessOf(access uint16) schema.Access {
	switch {
	case access&classfile.AccPublic != 0:
		return schema.AccessPublic
	case access&classfile.AccProtected != 0:
		return schema.AccessProtected
	case access&classfile.AccPrivate != 0:
		return schema.AccessPrivate
	default:
		return schema.AccessUnspecified // package-private
	}
}

// superSignature records the super class and interfaces as an applied
// type: super applied to the implemented interfaces.
func superSignature(info *classfile.ClassInfo) *schema.Type {
	if info.SuperName == "" && len(info.Interfaces) == 0 {
		return nil
	}
	super := &schema.Type{Ref: &schema.TypeRef{Symbol: "java/lang/Object#"}}
	if info.SuperName != "" {
		super = &schema.Type{Ref: &schema.TypeRef{Symbol: info.SuperName + "#"}}
	}
	if len(info.Interfaces) == 0 {
		return super
	}
	args := make([]*schema.Type, 0, len(info.Interfaces))
	for _, iface := range info.Interfaces {
		args = append(args, &schema.Type{Ref: &schema.TypeRef{Symbol: iface + "#"}})
	}
	return &schema.Type{Applied: &schema.AppliedType{Tpe: super, Arguments: args}}
}

// methodSignature models a method as its return type applied to the
// parameter types. Descriptors that fail to parse yield a nil signature
// rather than failing the document.
func methodSignature(descriptor string) *schema.Type {
	params, ret, err := classfile.MethodDescriptor(descriptor)
	if err != nil {
		return nil
	}
	retType := typeFromDescriptor(ret)
	if len(params) == 0 {
		return retType
	}
	args := make([]*schema.Type, 0, len(params))
	for _, p := range params {
		args = append(args, typeFromDescriptor(p))
	}
	return &schema.Type{Applied: &schema.AppliedType{Tpe: retType, Arguments: args}}
}

// primitiveSymbols maps JVM primitive descriptors to the builtin symbols
// supplied by the synthetic builtins payload.
var primitiveSymbols = map[byte]string{
	'B': "scala/Byte#",
	'C': "scala/Char#",
	'D': "scala/Double#",
	'F': "scala/Float#",
	'I': "scala/Int#",
	'J': "scala/Long#",
	'S': "scala/Short#",
	'Z': "scala/Boolean#",
	'V': "scala/Unit#",
}

func typeFromDescriptor(descriptor string) *schema.Type {
	if descriptor == "" {
		return nil
	}
	switch descriptor[0] {
	case '[':
		elem := typeFromDescriptor(descriptor[1:])
		return &schema.Type{Applied: &schema.AppliedType{
			Tpe:       &schema.Type{Ref: &schema.TypeRef{Symbol: "scala/Array#"}},
			Arguments: []*schema.Type{elem},
		}}
	case 'L':
		name := strings.TrimSuffix(descriptor[1:], ";")
		return &schema.Type{Ref: &schema.TypeRef{Symbol: name + "#"}}
	default:
		if sym, ok := primitiveSymbols[descriptor[0]]; ok {
			return &schema.Type{Ref: &schema.TypeRef{Symbol: sym}}
		}
		return nil
	}
}
