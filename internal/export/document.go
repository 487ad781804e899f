// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/scholarfinder/shortlist/pkg/types"
)

// Document is the structured export: a timestamped, counted list of
// reviewer entries.
type Document struct {
	ExportDate     time.Time `json:"exportDate" yaml:"exportDate"`
	TotalReviewers int       `json:"totalReviewers" yaml:"totalReviewers"`
	Reviewers      []Entry   `json:"reviewers" yaml:"reviewers"`
}

// Entry groups one reviewer's fields into location, publications, and
// validation sections.
type Entry struct {
	Name         string       `json:"name" yaml:"name"`
	Email        string       `json:"email" yaml:"email"`
	Affiliation  string       `json:"affiliation" yaml:"affiliation"`
	Location     Location     `json:"location" yaml:"location"`
	Publications Publications `json:"publications" yaml:"publications"`
	Validation   Validation   `json:"validation" yaml:"validation"`
}

// Location holds the optional city and country.
type Location struct {
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
}

// Publications holds the bibliometric counters.
type Publications struct {
	Total              int `json:"total" yaml:"total"`
	English            int `json:"english" yaml:"english"`
	Last10Years        int `json:"last10Years" yaml:"last10Years"`
	RelevantLast5Years int `json:"relevantLast5Years" yaml:"relevantLast5Years"`
	Last2Years         int `json:"last2Years" yaml:"last2Years"`
	LastYear           int `json:"lastYear" yaml:"lastYear"`
	ClinicalTrials     int `json:"clinicalTrials" yaml:"clinicalTrials"`
	ClinicalStudies    int `json:"clinicalStudies" yaml:"clinicalStudies"`
	CaseReports        int `json:"caseReports" yaml:"caseReports"`
	Retracted          int `json:"retracted" yaml:"retracted"`
	TFLastYear         int `json:"tfLastYear" yaml:"tfLastYear"`
}

// Validation holds the candidate validation outcome.
type Validation struct {
	Coauthor            bool   `json:"coauthor" yaml:"coauthor"`
	CountryMatch        string `json:"countryMatch" yaml:"countryMatch"`
	AffiliationMatch    string `json:"affiliationMatch" yaml:"affiliationMatch"`
	ConditionsMet       int    `json:"conditionsMet" yaml:"conditionsMet"`
	ConditionsSatisfied string `json:"conditionsSatisfied" yaml:"conditionsSatisfied"`
}

// NewDocument builds the structured document for reviewers, stamped with now
// in UTC.
func NewDocument(reviewers []types.Reviewer, now time.Time) (Document, error) {
	if len(reviewers) == 0 {
		return Document{}, ErrNoReviewers
	}

	entries := make([]Entry, len(reviewers))
	for i, r := range reviewers {
		entries[i] = Entry{
			Name:        r.Name,
			Email:       r.Email,
			Affiliation: r.Affiliation,
			Location: Location{
				City:    r.City,
				Country: r.Country,
			},
			Publications: Publications{
				Total:              r.TotalPublications,
				English:            r.EnglishPublications,
				Last10Years:        r.PublicationsLast10Years,
				RelevantLast5Years: r.RelevantPublicationsLast5Years,
				Last2Years:         r.PublicationsLast2Years,
				LastYear:           r.PublicationsLastYear,
				ClinicalTrials:     r.ClinicalTrials,
				ClinicalStudies:    r.ClinicalStudies,
				CaseReports:        r.CaseReports,
				Retracted:          r.RetractedPublications,
				TFLastYear:         r.TFPublicationsLastYear,
			},
			Validation: Validation{
				Coauthor:            r.Coauthor,
				CountryMatch:        string(r.CountryMatch),
				AffiliationMatch:    string(r.AffiliationMatch),
				ConditionsMet:       r.ConditionsMet,
				ConditionsSatisfied: r.ConditionsSatisfied,
			},
		}
	}

	return Document{
		ExportDate:     now.UTC(),
		TotalReviewers: len(entries),
		Reviewers:      entries,
	}, nil
}

// GenerateJSON renders reviewers as an indented JSON document.
func GenerateJSON(reviewers []types.Reviewer, now time.Time) (string, error) {
	doc, err := NewDocument(reviewers, now)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// GenerateYAML renders reviewers as a YAML document with the same structure
// as GenerateJSON.
func GenerateYAML(reviewers []types.Reviewer, now time.Time) (string, error) {
	doc, err := NewDocument(reviewers, now)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return buf.String(), nil
}
