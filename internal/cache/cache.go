// Package cache persists converted classpath payloads keyed by content
// fingerprint. Entries are written once via temp-file-plus-rename, so
// concurrent writers to the same key race harmlessly and readers never
// observe a partial entry.
package cache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Extension is the file extension of a committed payload.
const Extension = ".semanticdb"

// Fingerprint computes the content hash of the file at path. The result
// depends only on the bytes, never on path or mtime, so the same jar
// copied anywhere yields the same fingerprint.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// DefaultRoot returns the per-OS cache directory for the given tool
// version. Versions get disjoint directories, so entries written by an
// old build are never read by a newer one.
func DefaultRoot(toolVersion string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "semdb", toolVersion), nil
}

// Store is a disk-backed payload cache with a small in-memory layer over
// committed paths. Safe for concurrent use.
type Store struct {
	root string
	mem  *lru.Cache[string, string] // fingerprint -> committed path
}

// NewStore opens (creating if needed) a cache rooted at root.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", root, err)
	}
	mem, err := lru.New[string, string](1024)
	if err != nil {
		return nil, fmt.Errorf("create cache index: %w", err)
	}
	return &Store{root: root, mem: mem}, nil
}

// Root returns the cache directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.root, fingerprint+Extension)
}

// Get reports whether a committed entry exists for the fingerprint and
// returns its path. Only fully committed entries are visible: in-flight
// writes live under temp names that never match an entry path.
func (s *Store) Get(fingerprint string) (string, bool, error) {
	if path, ok := s.mem.Get(fingerprint); ok {
		return path, true, nil
	}
	path := s.entryPath(fingerprint)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get %s: %w", fingerprint, err)
	}
	s.mem.Add(fingerprint, path)
	return path, true, nil
}

// Put commits payload under the fingerprint and returns the entry path.
// The write goes to a temp file first and is published with an atomic
// rename. If another writer committed the same key in the meantime the
// rename simply replaces it with identical content.
func (s *Store) Put(fingerprint string, payload []byte) (string, error) {
	final := s.entryPath(fingerprint)

	tmp, err := os.CreateTemp(s.root, fingerprint+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("cache put %s: %w", fingerprint, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("cache put %s: %w", fingerprint, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("cache put %s: %w", fingerprint, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("cache put %s: %w", fingerprint, err)
	}
	s.mem.Add(fingerprint, final)
	return final, nil
}
