package locator

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePayload(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeArchive(t *testing.T, path string, entries map[string]string, order []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range order {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func collect(t *testing.T, inputs []string, opts Options) ([]Payload, int) {
	t.Helper()
	var got []Payload
	found, err := Locate(inputs, opts, func(p Payload) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	return got, found
}

func TestLocate_DirectFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "A.semanticdb")
	writePayload(t, path, "blob-a")

	got, found := collect(t, []string{path}, Options{})
	require.Equal(t, 1, found)
	assert.Equal(t, path, got[0].Source)
	assert.Equal(t, []byte("blob-a"), got[0].Data)
}

func TestLocate_DirectoryLexicalOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePayload(t, filepath.Join(dir, "b", "B.semanticdb"), "b")
	writePayload(t, filepath.Join(dir, "a", "A.semanticdb"), "a")
	writePayload(t, filepath.Join(dir, "a", "readme.txt"), "not a payload")
	writePayload(t, filepath.Join(dir, "C.semanticdb"), "c")

	got, found := collect(t, []string{dir}, Options{})
	require.Equal(t, 3, found)
	assert.Equal(t, filepath.Join(dir, "C.semanticdb"), got[0].Source)
	assert.Equal(t, filepath.Join(dir, "a", "A.semanticdb"), got[1].Source)
	assert.Equal(t, filepath.Join(dir, "b", "B.semanticdb"), got[2].Source)
}

func TestLocate_ArchiveEntryOrder(t *testing.T) {
	t.Parallel()
	jar := filepath.Join(t.TempDir(), "lib.jar")
	writeArchive(t, jar, map[string]string{
		"META-INF/semanticdb/z.semanticdb": "z",
		"META-INF/semanticdb/a.semanticdb": "a",
		"META-INF/MANIFEST.MF":             "manifest",
	}, []string{
		"META-INF/semanticdb/z.semanticdb",
		"META-INF/semanticdb/a.semanticdb",
		"META-INF/MANIFEST.MF",
	})

	got, found := collect(t, []string{jar}, Options{})
	require.Equal(t, 2, found)
	// Archive-entry order, not lexical.
	assert.Equal(t, jar+"!/META-INF/semanticdb/z.semanticdb", got[0].Source)
	assert.Equal(t, jar+"!/META-INF/semanticdb/a.semanticdb", got[1].Source)
}

func TestLocate_InputOrderAcrossInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	one := filepath.Join(dir, "one.semanticdb")
	two := filepath.Join(dir, "two.semanticdb")
	writePayload(t, one, "1")
	writePayload(t, two, "2")

	got, _ := collect(t, []string{two, one}, Options{})
	require.Len(t, got, 2)
	assert.Equal(t, two, got[0].Source)
	assert.Equal(t, one, got[1].Source)
}

func TestLocate_IncludeExclude(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePayload(t, filepath.Join(dir, "src", "A.semanticdb"), "a")
	writePayload(t, filepath.Join(dir, "src", "B.semanticdb"), "b")
	writePayload(t, filepath.Join(dir, "gen", "G.semanticdb"), "g")

	got, _ := collect(t, []string{dir}, Options{Include: []string{"src/**"}})
	require.Len(t, got, 2)

	got, _ = collect(t, []string{dir}, Options{Exclude: []string{"**/B.semanticdb"}})
	require.Len(t, got, 2)
	for _, p := range got {
		assert.NotContains(t, p.Source, "B.semanticdb")
	}

	got, _ = collect(t, []string{dir}, Options{
		Include: []string{"src/**"},
		Exclude: []string{"src/A.semanticdb"},
	})
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Source, "B.semanticdb")
}

func TestLocate_EmptyResult(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writePayload(t, filepath.Join(dir, "notes.txt"), "nothing here")

	got, found := collect(t, []string{dir}, Options{})
	assert.Empty(t, got)
	assert.Zero(t, found)
}

func TestLocate_MissingInput(t *testing.T) {
	t.Parallel()
	_, err := Locate([]string{filepath.Join(t.TempDir(), "gone")}, Options{}, func(Payload) error {
		t.Fatal("must not yield")
		return nil
	})
	require.Error(t, err)
}

func TestLocate_Reproducible(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"d/x", "a/y", "c/z", "b/w"} {
		writePayload(t, filepath.Join(dir, name+".semanticdb"), name)
	}

	first, _ := collect(t, []string{dir}, Options{})
	second, _ := collect(t, []string{dir}, Options{})
	assert.Equal(t, first, second)
}
