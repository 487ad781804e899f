// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes reviewer shortlists into CSV, JSON, and YAML
// documents and hands them to a Saver for download.
//
// The Generate functions are pure: they never mutate their input and fail
// fast with a *ValidationError when there is nothing to export. The
// Exporter wraps them with filename derivation and a Saver, and reports
// every failure as an *ExportError after logging the cause.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies an export document format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

// ParseFormat maps a user-supplied name (case-insensitive, "yml" accepted)
// to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q: use csv, json, or yaml", s)
}

// MediaType returns the MIME type passed to the Saver.
func (f Format) MediaType() string {
	switch f {
	case FormatCSV:
		return "text/csv;charset=utf-8;"
	case FormatJSON:
		return "application/json;charset=utf-8;"
	case FormatYAML:
		return "application/yaml;charset=utf-8;"
	}
	return "application/octet-stream"
}

// Filename returns reviewers-YYYY-MM-DD.<ext> for the UTC date of now.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("reviewers-%s.%s", now.UTC().Format(time.DateOnly), string(f))
}

// ValidationError reports input that cannot be exported.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNoReviewers is returned by every generator for an empty reviewer list.
var ErrNoReviewers = &ValidationError{Message: "No reviewers to export"}

// ExportError is returned by the Exporter when a document could not be
// generated or saved. Error() is the generic, format-specific message shown
// to users; Unwrap exposes the cause for diagnostics.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("Failed to generate %s file", strings.ToUpper(string(e.Format)))
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
