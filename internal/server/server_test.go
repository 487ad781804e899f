// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/shortlist/internal/export"
	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/internal/shortlist"
	"github.com/scholarfinder/shortlist/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const testJobID = "3f2b8c1e-9a4d-4e7b-8c2a-1d5e6f7a8b9c"

func jane() types.Reviewer {
	return types.Reviewer{
		Name:                "Dr. Jane Smith",
		Email:               "jane.smith@university.edu",
		Affiliation:         "Department of Biology, Example University",
		City:                "Boston",
		Country:             "USA",
		TotalPublications:   120,
		CountryMatch:        types.MatchYes,
		AffiliationMatch:    types.MatchNo,
		ConditionsMet:       8,
		ConditionsSatisfied: "8 of 8",
	}
}

func testServer(t *testing.T) (*Server, *shortlist.Store) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	store, err := shortlist.NewStore(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")}, metrics)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := New(types.ServerConfig{Address: "127.0.0.1:0"}, store, zerolog.Nop(), metrics, reg)
	s.now = func() time.Time { return fixedNow }
	return s, store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPutAndGetShortlist(t *testing.T) {
	s, _ := testServer(t)

	body, err := json.Marshal([]types.Reviewer{jane()})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, "/api/v1/jobs/"+testJobID+"/shortlist", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/v1/jobs/"+testJobID+"/shortlist", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp shortlistResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testJobID, resp.JobID)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []types.Reviewer{jane()}, resp.Reviewers)

	rec = do(t, s, http.MethodGet, "/api/v1/shortlists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"job_id":"`+testJobID+`"`)
}

func TestPutRequiresUUIDJobID(t *testing.T) {
	s, store := testServer(t)

	body, err := json.Marshal([]types.Reviewer{jane()})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, "/api/v1/jobs/job-1/shortlist", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid job ID")

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "nothing is stored under a non-UUID job ID")
}

func TestPutCanonicalizesJobID(t *testing.T) {
	s, store := testServer(t)

	body, err := json.Marshal([]types.Reviewer{jane()})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPut, "/api/v1/jobs/"+strings.ToUpper(testJobID)+"/shortlist", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := store.Load(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPutRejectsInvalidReviewers(t *testing.T) {
	s, _ := testServer(t)

	path := "/api/v1/jobs/" + testJobID + "/shortlist"
	rec := do(t, s, http.MethodPut, path, `[{"name":"","countryMatch":"yes","affiliationMatch":"no"}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, s, http.MethodPut, path, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownShortlist(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/jobs/missing/shortlist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteShortlist(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-1", []types.Reviewer{jane()}))

	rec := do(t, s, http.MethodDelete, "/api/v1/jobs/job-1/shortlist", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/jobs/job-1/shortlist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSVDownload(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-1", []types.Reviewer{jane()}))

	rec := do(t, s, http.MethodGet, "/api/v1/jobs/job-1/shortlist/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv;charset=utf-8;", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=reviewers-2026-03-14.csv", rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, export.Columns(), records[0])
	assert.Equal(t, "Department of Biology, Example University", records[1][2])
}

func TestExportJSONDownload(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-1", []types.Reviewer{jane()}))

	rec := do(t, s, http.MethodGet, "/api/v1/jobs/job-1/shortlist/export.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json;charset=utf-8;", rec.Header().Get("Content-Type"))

	var doc export.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 1, doc.TotalReviewers)
	assert.Equal(t, "Dr. Jane Smith", doc.Reviewers[0].Name)
	assert.True(t, doc.ExportDate.Equal(fixedNow))
}

func TestExportEmptyShortlist(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-empty", nil))

	rec := do(t, s, http.MethodGet, "/api/v1/jobs/job-empty/shortlist/export.csv", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to generate CSV file"}`, rec.Body.String())
}

func TestExportUnknownFormat(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-1", []types.Reviewer{jane()}))

	rec := do(t, s, http.MethodGet, "/api/v1/jobs/job-1/shortlist/export.xlsx", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, store := testServer(t)
	require.NoError(t, store.Save(context.Background(), "job-1", []types.Reviewer{jane()}))
	do(t, s, http.MethodGet, "/api/v1/jobs/job-1/shortlist/export.yaml", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scholarfinder_exports_total{format="yaml",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `scholarfinder_shortlists_saved_total 1`)
}

type failingStore struct{ *shortlist.Store }

func (failingStore) Load(context.Context, string) ([]types.Reviewer, error) {
	return nil, errors.New("database is locked")
}

func TestStoreFailureIsInternalError(t *testing.T) {
	s := New(types.ServerConfig{}, failingStore{}, zerolog.Nop(), nil, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/jobs/job-1/shortlist", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
