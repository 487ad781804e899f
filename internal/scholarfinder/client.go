// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholarfinder is a client for the ScholarFinder API endpoints that
// return validated reviewer candidates for a job.
package scholarfinder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarfinder/shortlist/internal/httputil"
	"github.com/scholarfinder/shortlist/pkg/types"
)

// ErrJobNotFound is returned when the API has no reviewer data for a job.
var ErrJobNotFound = errors.New("job not found")

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "scholarfinder-shortlist/0.1"
)

// Client calls the ScholarFinder API.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a Client for cfg.BaseURL.
func NewClient(cfg types.APIConfig) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parsing api base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		userAgent:  ua,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ParseJobID checks that id is a UUID, the form the API issues on upload.
func ParseJobID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid job ID %q: %w", id, err)
	}
	return u.String(), nil
}

// RecommendedReviewers fetches the validated reviewers for jobID in the
// order the API ranks them.
func (c *Client) RecommendedReviewers(ctx context.Context, jobID string) ([]types.Reviewer, error) {
	id, err := ParseJobID(jobID)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + "/recommended_reviewers?" + url.Values{"job_id": {id}}.Encode()

	var resp recommendedResponse
	if err := httputil.GetJSON(ctx, c.httpClient, u, c.header(), &resp); err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, se.Message)
		}
		return nil, fmt.Errorf("fetching recommended reviewers: %w", err)
	}

	reviewers := make([]types.Reviewer, len(resp.Reviewers))
	for i, rec := range resp.Reviewers {
		reviewers[i] = rec.toReviewer()
	}
	return reviewers, nil
}

func (c *Client) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		h.Set("X-API-Key", c.apiKey)
	}
	return h
}
