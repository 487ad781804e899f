// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download implements the file-save capability used by exports:
// writing into a directory, streaming to a writer, or sending an HTTP
// attachment.
package download

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// DirSaver writes files into Dir. Content goes to a temp file that is
// renamed into place, so a failed save never leaves a partial export.
type DirSaver struct {
	Dir string

	// Written receives the final path of every saved file. Optional.
	Written func(path string)
}

// Save writes content to Dir/filename. The media type is not recorded on disk.
func (s DirSaver) Save(content, filename, mediaType string) (err error) {
	if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return fmt.Errorf("invalid filename %q", filename)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+filename+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.WriteString(tmp, content); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", filename, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filename, err)
	}

	path := filepath.Join(s.Dir, filename)
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("moving %s into place: %w", filename, err)
	}
	if s.Written != nil {
		s.Written(path)
	}
	return nil
}

// WriterSaver streams content to W, e.g. os.Stdout. Filename and media
// type are ignored.
type WriterSaver struct {
	W io.Writer
}

// Save writes content to W.
func (s WriterSaver) Save(content, filename, mediaType string) error {
	if _, err := io.WriteString(s.W, content); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// ResponseSaver sends content as an HTTP attachment.
type ResponseSaver struct {
	W http.ResponseWriter
}

// Save writes the download headers and body with status 200.
func (s ResponseSaver) Save(content, filename, mediaType string) error {
	h := s.W.Header()
	h.Set("Content-Type", mediaType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	h.Set("Cache-Control", "no-store")
	s.W.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(s.W, content); err != nil {
		return fmt.Errorf("writing response body: %w", err)
	}
	return nil
}
