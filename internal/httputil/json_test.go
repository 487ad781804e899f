// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "scholarfinder-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job_id":"abc","reviewer_count":2}`))
	}))
	defer ts.Close()

	var got struct {
		JobID string `json:"job_id"`
		Count int    `json:"reviewer_count"`
	}
	header := http.Header{"User-Agent": {"scholarfinder-test"}}
	require.NoError(t, GetJSON(context.Background(), ts.Client(), ts.URL, header, &got))

	assert.Equal(t, "abc", got.JobID)
	assert.Equal(t, 2, got.Count)
}

func TestGetJSONStatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusNotFound, `{"error":"Invalid job_id 'x'."}`, "Invalid job_id 'x'."},
		{"detail field", http.StatusUnprocessableEntity, `{"detail":"job_id required"}`, "job_id required"},
		{"plain text", http.StatusBadGateway, "upstream timeout\n", "upstream timeout"},
		{"empty body", http.StatusInternalServerError, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			var v map[string]any
			err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, &v)

			var se *StatusError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	var v map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestGetJSONContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var v map[string]any
	err := GetJSON(ctx, ts.Client(), ts.URL, nil, &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
