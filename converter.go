package semdb

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/semdb/internal/cache"
	"github.com/jward/semdb/internal/classfile"
	"github.com/jward/semdb/internal/schema"
)

// Converter turns classpath entries (jars and class directories) into
// semantic database payloads. Jar entries are cached by content
// fingerprint; directory entries are treated as mutable and always
// reconverted.
type Converter struct {
	cache   *cache.Store
	reader  classfile.Reader
	verbose bool

	targetDir string
	cacheDir  string

	parallel bool
	workers  int
	builtins bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithParallel controls concurrent entry processing. When true (default),
// Convert runs per-entry conversion tasks on a worker pool; results are
// placed by input index so output order never depends on completion order.
func WithParallel(parallel bool) Option {
	return func(c *Converter) {
		c.parallel = parallel
	}
}

// WithWorkers bounds the worker pool. Values below one fall back to the
// CPU count.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithCacheDir overrides the per-OS default cache location.
func WithCacheDir(dir string) Option {
	return func(c *Converter) {
		c.cacheDir = dir
	}
}

// WithTargetDir sets where non-cacheable payloads (directory entries, the
// builtins entry) are written. Defaults to ".semdb".
func WithTargetDir(dir string) Option {
	return func(c *Converter) {
		c.targetDir = dir
	}
}

// WithBuiltins controls whether the supplementary payload of built-in
// definitions is appended to the output classpath. On by default.
func WithBuiltins(include bool) Option {
	return func(c *Converter) {
		c.builtins = include
	}
}

// WithReader swaps the artifact reader. Used by tests and by callers with
// their own classfile tooling.
func WithReader(r classfile.Reader) Option {
	return func(c *Converter) {
		c.reader = r
	}
}

// WithVerbose enables progress reporting to stderr.
func WithVerbose(verbose bool) Option {
	return func(c *Converter) {
		c.verbose = verbose
	}
}

// New creates a Converter. The payload cache lives under the per-OS cache
// directory namespaced by tool version unless WithCacheDir overrides it.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		reader:    classfile.NewReader(),
		targetDir: ".semdb",
		parallel:  true,
		builtins:  true,
	}
	for _, opt := range opts {
		opt(c)
	}

	root := c.cacheDir
	if root == "" {
		var err error
		root, err = cache.DefaultRoot(Version)
		if err != nil {
			return nil, fmt.Errorf("semdb: resolve cache dir: %w", err)
		}
	}
	store, err := cache.NewStore(root)
	if err != nil {
		return nil, fmt.Errorf("semdb: open cache: %w", err)
	}
	c.cache = store
	return c, nil
}

// Result is the outcome of one Convert call. Classpath holds the payload
// path for every successfully converted entry, in input order, with the
// builtins payload appended last when enabled. Errors holds one entry per
// failed input.
type Result struct {
	Classpath []string
	Errors    []*EntryError
}

// Convert processes entries in input order and returns the new classpath.
// A failing entry is recorded and does not abort its siblings; when any
// entry failed the returned error is a *ConversionError enumerating the
// failures, alongside the partial Result.
func (c *Converter) Convert(ctx context.Context, entries []string) (*Result, error) {
	if err := os.MkdirAll(c.targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("semdb: create target dir: %w", err)
	}

	var outputs []string
	var entryErrs []*EntryError
	if c.parallel && len(entries) > 1 {
		outputs, entryErrs = c.convertParallel(ctx, entries)
	} else {
		outputs, entryErrs = c.convertSerial(ctx, entries)
	}

	result := &Result{Errors: entryErrs}
	for _, out := range outputs {
		if out != "" {
			result.Classpath = append(result.Classpath, out)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if c.builtins {
		path, err := c.writeBuiltins()
		if err != nil {
			return result, fmt.Errorf("semdb: write builtins payload: %w", err)
		}
		result.Classpath = append(result.Classpath, path)
	}

	if len(entryErrs) > 0 {
		return result, &ConversionError{Entries: entryErrs}
	}
	return result, nil
}

// convertSerial is the single-threaded path. Outputs are indexed by input
// position; an empty string marks a failed entry.
func (c *Converter) convertSerial(ctx context.Context, entries []string) ([]string, []*EntryError) {
	outputs := make([]string, len(entries))
	var errs []*EntryError
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		out, err := c.convertEntry(ctx, entry)
		if err != nil {
			errs = append(errs, &EntryError{Entry: entry, Err: err})
			continue
		}
		outputs[i] = out
	}
	return outputs, errs
}

func (c *Converter) convertEntry(ctx context.Context, entry string) (string, error) {
	info, err := os.Stat(entry)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		// Directory entries are transient: always reconvert, never cache.
		docs, err := c.convertDir(ctx, entry)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			// Nothing to describe; an empty payload would only pad the
			// classpath.
			c.progress("skipped %s (no class files)", entry)
			return "", nil
		}
		payload, err := schema.Marshal(docs)
		if err != nil {
			return "", err
		}
		return c.writeTargetPayload(entry, payload)
	}

	if !isArchive(entry) {
		return "", fmt.Errorf("unsupported classpath entry (want jar, zip or directory)")
	}

	fingerprint, err := cache.Fingerprint(entry)
	if err != nil {
		return "", err
	}
	path, hit, err := c.cache.Get(fingerprint)
	if err != nil {
		// Cache faults degrade to a miss; never fail the entry for them.
		fmt.Fprintf(os.Stderr, "semdb: cache read for %s failed, reconverting: %v\n", entry, err)
	} else if hit {
		c.progress("cached %s", entry)
		return path, nil
	}

	payload, err := c.convertArchive(ctx, entry)
	if err != nil {
		return "", err
	}
	// A cancelled conversion must not commit to the cache.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err = c.cache.Put(fingerprint, payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "semdb: cache write for %s failed, using target dir: %v\n", entry, err)
		return c.writeTargetPayload(entry, payload)
	}
	c.progress("converted %s", entry)
	return path, nil
}

// convertDir walks a class directory in lexical order and collects one
// document per class file.
func (c *Converter) convertDir(ctx context.Context, dir string) ([]*schema.TextDocument, error) {
	var docs []*schema.TextDocument
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !isClassFile(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		doc, err := c.classDocument(filepath.ToSlash(rel), data)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// convertArchive bundles one document per class file inside a jar.
// Artifacts are processed in archive-entry order; the bundle is complete
// before the entry counts as converted.
func (c *Converter) convertArchive(ctx context.Context, path string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var docs []*schema.TextDocument
	for _, f := range r.File {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isClassFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		doc, err := c.classDocument(f.Name, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return schema.Marshal(docs)
}

// classDocument parses one class file and builds its symbols-only
// document. No source text is available, so there are no occurrences.
func (c *Converter) classDocument(uri string, data []byte) (*schema.TextDocument, error) {
	info, err := c.reader.Read(uri, data)
	if err != nil {
		return nil, err
	}
	return documentFromClass(uri, info), nil
}

// writeTargetPayload writes a payload under the target directory with a
// name derived from the entry's base name and a hash of its absolute
// path: deterministic across runs, collision-free across entries.
func (c *Converter) writeTargetPayload(entry string, payload []byte) (string, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		abs = entry
	}
	sum := sha256.Sum256([]byte(abs))
	name := fmt.Sprintf("%s-%x%s", sanitizeName(filepath.Base(entry)), sum[:6], cache.Extension)
	path := filepath.Join(c.targetDir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	c.progress("converted %s", entry)
	return path, nil
}

func (c *Converter) writeBuiltins() (string, error) {
	payload, err := schema.Marshal(builtinDocuments())
	if err != nil {
		return "", err
	}
	path := filepath.Join(c.targetDir, "semdb-builtins"+cache.Extension)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Converter) progress(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "semdb: "+format+"\n", args...)
	}
}

func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return true
	}
	return false
}

func isClassFile(path string) bool {
	return strings.HasSuffix(path, ".class") &&
		!strings.HasSuffix(path, "module-info.class") &&
		!strings.HasSuffix(path, "package-info.class")
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
}
