// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/pkg/types"
)

// recordingSaver captures every Save call.
type recordingSaver struct {
	mu    sync.Mutex
	calls []savedFile
	err   error
}

type savedFile struct {
	content, filename, mediaType string
}

func (s *recordingSaver) Save(content, filename, mediaType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, savedFile{content, filename, mediaType})
	return s.err
}

func fixedClock() time.Time { return fixedNow }

func TestExporterSavesEachFormat(t *testing.T) {
	tests := []struct {
		name      string
		export    func(*Exporter, []types.Reviewer) error
		filename  string
		mediaType string
		generate  func([]types.Reviewer) (string, error)
	}{
		{
			name:      "csv",
			export:    (*Exporter).ExportCSV,
			filename:  "reviewers-2026-03-14.csv",
			mediaType: "text/csv;charset=utf-8;",
			generate:  GenerateCSV,
		},
		{
			name:      "json",
			export:    (*Exporter).ExportJSON,
			filename:  "reviewers-2026-03-14.json",
			mediaType: "application/json;charset=utf-8;",
			generate:  func(r []types.Reviewer) (string, error) { return GenerateJSON(r, fixedNow) },
		},
		{
			name:      "yaml",
			export:    (*Exporter).ExportYAML,
			filename:  "reviewers-2026-03-14.yaml",
			mediaType: "application/yaml;charset=utf-8;",
			generate:  func(r []types.Reviewer) (string, error) { return GenerateYAML(r, fixedNow) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &recordingSaver{}
			e := NewExporter(saver, WithClock(fixedClock))

			require.NoError(t, tt.export(e, sampleReviewers()))

			want, err := tt.generate(sampleReviewers())
			require.NoError(t, err)
			require.Len(t, saver.calls, 1)
			assert.Equal(t, tt.filename, saver.calls[0].filename)
			assert.Equal(t, tt.mediaType, saver.calls[0].mediaType)
			assert.Equal(t, want, saver.calls[0].content)
		})
	}
}

func TestExporterEmptyInput(t *testing.T) {
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var logs bytes.Buffer
			saver := &recordingSaver{}
			e := NewExporter(saver, WithClock(fixedClock), WithLogger(zerolog.New(&logs)))

			err := e.Export(format, nil)

			var exportErr *ExportError
			require.True(t, errors.As(err, &exportErr), "got %T", err)
			assert.Equal(t, format, exportErr.Format)
			assert.Empty(t, saver.calls, "saver must not be called")
			assert.Contains(t, logs.String(), "No reviewers to export", "cause is logged")

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "cause stays reachable through Unwrap")
		})
	}
}

func TestExportErrorMessages(t *testing.T) {
	e := NewExporter(&recordingSaver{}, WithClock(fixedClock))

	assert.EqualError(t, e.ExportCSV(nil), "Failed to generate CSV file")
	assert.EqualError(t, e.ExportJSON(nil), "Failed to generate JSON file")
	assert.EqualError(t, e.ExportYAML(nil), "Failed to generate YAML file")
}

func TestExporterWrapsSaverFailure(t *testing.T) {
	boom := errors.New("disk full")
	var logs bytes.Buffer
	e := NewExporter(&recordingSaver{err: boom}, WithClock(fixedClock), WithLogger(zerolog.New(&logs)))

	err := e.ExportCSV(sampleReviewers())

	assert.EqualError(t, err, "Failed to generate CSV file")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, logs.String(), "disk full")
}

func TestExporterUnsupportedFormat(t *testing.T) {
	saver := &recordingSaver{}
	e := NewExporter(saver, WithClock(fixedClock))

	err := e.Export(Format("xml"), sampleReviewers())

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "Failed to generate XML file", err.Error())
	assert.Empty(t, saver.calls)
}

func TestExporterRecordsMetrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	e := NewExporter(&recordingSaver{}, WithClock(fixedClock), WithMetrics(m))

	require.NoError(t, e.ExportCSV(sampleReviewers()))
	require.Error(t, e.ExportJSON(nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("csv", observability.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("json", observability.OutcomeFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReviewersExported.WithLabelValues("csv")))
}

func TestExporterConcurrentCalls(t *testing.T) {
	saver := &recordingSaver{}
	e := NewExporter(saver, WithClock(fixedClock))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.ExportCSV(sampleReviewers()))
		}()
	}
	wg.Wait()

	require.Len(t, saver.calls, 8)
	for _, c := range saver.calls[1:] {
		assert.Equal(t, saver.calls[0].content, c.content)
	}
}

func TestSaverFunc(t *testing.T) {
	var got string
	e := NewExporter(SaverFunc(func(content, filename, mediaType string) error {
		got = filename
		return nil
	}), WithClock(fixedClock))

	require.NoError(t, e.ExportJSON([]types.Reviewer{janeSmith()}))
	assert.Equal(t, "reviewers-2026-03-14.json", got)
}
