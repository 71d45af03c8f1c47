// Package semdb produces, caches, locates and prints semantic database
// payloads: schema-defined binary documents describing a program's
// symbols, types and source occurrences. Payloads are the interchange
// contract between compilers that harvest semantic facts and the tools
// that consume them (linters, code browsers, language servers).
//
// # Pipeline
//
// The production path converts a dependency classpath into payloads:
//
//  1. Convert: for each classpath entry (jar or class directory), parse
//     the binary class artifacts inside and bundle one symbols-only
//     document per artifact into a payload. Jar results are cached by
//     content fingerprint; directories are always reconverted.
//
//  2. The output is a new classpath pointing at the produced payloads,
//     with a supplementary builtins payload appended.
//
// The consumption path discovers and renders payloads:
//
//  1. Locate: walk payload files, directories and archives in stable
//     order, yielding every payload found.
//
//  2. Render: print a decoded document as a condensed human-readable
//     summary or as a raw field-by-field schema dump. Condensed output
//     is byte-identical across runs.
//
// # Usage
//
// Convert a classpath:
//
//	conv, err := semdb.New(semdb.WithTargetDir(".semdb"))
//	if err != nil { ... }
//	result, err := conv.Convert(ctx, []string{"lib/core.jar", "out/classes"})
//	for _, path := range result.Classpath { ... }
//
// Locate and render payloads:
//
//	_, err = semdb.Locate(paths, semdb.LocateOptions{}, func(p semdb.Payload) error {
//		docs, err := semdb.Unmarshal(p.Data)
//		if err != nil {
//			return err
//		}
//		for _, doc := range docs {
//			if err := semdb.Render(os.Stdout, doc, semdb.ModeCondensed); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
//
// # Failure model
//
// Convert collects per-entry failures instead of aborting: the returned
// [Result] carries every successfully converted entry and the error is a
// [*ConversionError] enumerating the rest. Cache faults degrade to a
// fresh conversion and never fail an entry. Decode failures are fatal to
// the single payload only; [UnsupportedSchemaVersionError] is always
// surfaced, never skipped.
package semdb
