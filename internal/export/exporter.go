// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/pkg/types"
)

// Saver presents generated content to the user as a file named filename
// with MIME type mediaType. Implementations own any transient resources
// they acquire and release them on every return path.
type Saver interface {
	Save(content, filename, mediaType string) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(content, filename, mediaType string) error

// Save calls f.
func (f SaverFunc) Save(content, filename, mediaType string) error {
	return f(content, filename, mediaType)
}

// Exporter generates export documents and hands them to a Saver.
// It holds no per-call state and is safe for concurrent use when its Saver is.
type Exporter struct {
	saver   Saver
	now     func() time.Time
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the time source used for exportDate and filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithLogger sets the logger that receives failure causes.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// WithMetrics records export outcomes in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// NewExporter returns an Exporter that delivers files to saver.
func NewExporter(saver Saver, opts ...Option) *Exporter {
	e := &Exporter{
		saver:  saver,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportCSV saves reviewers as reviewers-YYYY-MM-DD.csv.
func (e *Exporter) ExportCSV(reviewers []types.Reviewer) error {
	return e.Export(FormatCSV, reviewers)
}

// ExportJSON saves reviewers as reviewers-YYYY-MM-DD.json.
func (e *Exporter) ExportJSON(reviewers []types.Reviewer) error {
	return e.Export(FormatJSON, reviewers)
}

// ExportYAML saves reviewers as reviewers-YYYY-MM-DD.yaml.
func (e *Exporter) ExportYAML(reviewers []types.Reviewer) error {
	return e.Export(FormatYAML, reviewers)
}

// Export generates the document for format and saves it. Any failure,
// including an empty reviewer list, is logged and returned as an
// *ExportError; the Saver is not called when generation fails.
func (e *Exporter) Export(format Format, reviewers []types.Reviewer) error {
	now := e.now()

	content, err := Generate(format, reviewers, now)
	if err == nil {
		err = e.saver.Save(content, Filename(format, now), format.MediaType())
	}
	e.metrics.RecordExport(string(format), len(reviewers), err)

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("format", string(format)).
			Int("reviewers", len(reviewers)).
			Msg("export failed")
		return &ExportError{Format: format, Err: err}
	}

	e.logger.Debug().
		Str("format", string(format)).
		Int("reviewers", len(reviewers)).
		Msg("export saved")
	return nil
}

// Generate dispatches to the generator for format.
func Generate(format Format, reviewers []types.Reviewer, now time.Time) (string, error) {
	switch format {
	case FormatCSV:
		return GenerateCSV(reviewers)
	case FormatJSON:
		return GenerateJSON(reviewers, now)
	case FormatYAML:
		return GenerateYAML(reviewers, now)
	}
	return "", fmt.Errorf("unsupported format %q", string(format))
}
