// Package locator discovers semantic database payloads under files,
// directories and archives. Traversal is stable: inputs are visited in
// the order given, directories in lexical order, archives in entry order,
// so repeated runs over the same inputs yield the same sequence.
package locator

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension marks a payload file.
const Extension = ".semanticdb"

// Payload is one discovered payload blob. Source identifies where it came
// from; payloads inside archives use the "archive!/entry" notation.
type Payload struct {
	Source string
	Data   []byte
}

// Options filters discovery inside directories and archives. Patterns are
// doublestar globs matched against slash-separated paths relative to the
// directory or archive root. Explicitly named payload files bypass the
// filters: the caller asked for them.
type Options struct {
	Include []string
	Exclude []string
}

func (o Options) match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(o.Include) == 0 {
		return true
	}
	for _, pattern := range o.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Locate walks inputs and calls fn for every payload found, in traversal
// order. It returns the number of payloads yielded. An input that exists
// but contains no payloads contributes zero and is not an error; a
// non-nil error from fn stops the walk.
func Locate(inputs []string, opts Options, fn func(Payload) error) (int, error) {
	found := 0
	yield := func(p Payload) error {
		found++
		return fn(p)
	}
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return found, fmt.Errorf("locate %s: %w", input, err)
		}
		switch {
		case info.IsDir():
			err = locateDir(input, opts, yield)
		case isArchive(input):
			err = locateArchive(input, opts, yield)
		case strings.HasSuffix(input, Extension):
			err = locateFile(input, yield)
		default:
			err = fmt.Errorf("locate %s: not a payload, directory or archive", input)
		}
		if err != nil {
			return found, err
		}
	}
	return found, nil
}

func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return true
	}
	return false
}

func locateFile(path string, yield func(Payload) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", path, err)
	}
	return yield(Payload{Source: path, Data: data})
}

func locateDir(root string, opts Options, yield func(Payload) error) error {
	// WalkDir visits entries in lexical order, which is what keeps the
	// sequence reproducible.
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
		if d.IsDir() || !strings.HasSuffix(path, Extension) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !opts.match(rel) {
			return nil
		}
		return locateFile(path, yield)
	})
}

func locateArchive(path string, opts Options, yield func(Payload) error) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, Extension) || !opts.match(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s!/%s: %w", path, f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read %s!/%s: %w", path, f.Name, err)
		}
		if err := yield(Payload{Source: path + "!/" + f.Name, Data: data}); err != nil {
			return err
		}
	}
	return nil
}
