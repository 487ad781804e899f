// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSaverWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	var written string
	s := DirSaver{Dir: dir, Written: func(p string) { written = p }}

	require.NoError(t, s.Save("Name\nJane", "reviewers-2026-03-14.csv", "text/csv;charset=utf-8;"))

	path := filepath.Join(dir, "reviewers-2026-03-14.csv")
	assert.Equal(t, path, written)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name\nJane", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

func TestDirSaverOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := DirSaver{Dir: dir}

	require.NoError(t, s.Save("first", "out.json", ""))
	require.NoError(t, s.Save("second", "out.json", ""))

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDirSaverRejectsPaths(t *testing.T) {
	dir := t.TempDir()
	s := DirSaver{Dir: dir}

	for _, name := range []string{"../escape.csv", "sub/file.csv", ".."} {
		assert.Error(t, s.Save("x", name, ""), name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDirSaverCleansUpOnFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the destination makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.csv"), 0o755))

	err := DirSaver{Dir: dir}.Save("x", "taken.csv", "")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "taken.csv", entries[0].Name())
}

func TestWriterSaver(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterSaver{W: &buf}.Save("content", "ignored.csv", "text/csv"))
	assert.Equal(t, "content", buf.String())
}

func TestResponseSaver(t *testing.T) {
	rec := httptest.NewRecorder()

	err := ResponseSaver{W: rec}.Save(`{"a":1}`, "reviewers-2026-03-14.json", "application/json;charset=utf-8;")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json;charset=utf-8;", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=reviewers-2026-03-14.json`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "7", rec.Header().Get("Content-Length"))
	assert.Equal(t, `{"a":1}`, rec.Body.String())
}
