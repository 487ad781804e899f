// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the shortlist, export, client,
// and server packages.
package types

import "strings"

// MatchFlag is the normalized result of a country or affiliation comparison.
type MatchFlag string

const (
	MatchYes MatchFlag = "yes"
	MatchNo  MatchFlag = "no"
)

// ParseMatchFlag normalizes "YES"/"No"/" yes " style input. Anything that
// is not a yes is reported as no.
func ParseMatchFlag(s string) MatchFlag {
	if strings.EqualFold(strings.TrimSpace(s), string(MatchYes)) {
		return MatchYes
	}
	return MatchNo
}

// Reviewer is a candidate peer reviewer with bibliometric counters and the
// outcome of candidate validation. City and Country are optional; every
// other field is expected to be present and already validated by the caller.
type Reviewer struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Email       string `json:"email" yaml:"email"`
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// City and Country are empty when the affiliation could not be resolved.
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`

	TotalPublications              int `json:"totalPublications" yaml:"totalPublications" validate:"min=0"`
	EnglishPublications            int `json:"englishPublications" yaml:"englishPublications" validate:"min=0"`
	PublicationsLast10Years        int `json:"publicationsLast10Years" yaml:"publicationsLast10Years" validate:"min=0"`
	RelevantPublicationsLast5Years int `json:"relevantPublicationsLast5Years" yaml:"relevantPublicationsLast5Years" validate:"min=0"`
	PublicationsLast2Years         int `json:"publicationsLast2Years" yaml:"publicationsLast2Years" validate:"min=0"`
	PublicationsLastYear           int `json:"publicationsLastYear" yaml:"publicationsLastYear" validate:"min=0"`
	ClinicalTrials                 int `json:"clinicalTrials" yaml:"clinicalTrials" validate:"min=0"`
	ClinicalStudies                int `json:"clinicalStudies" yaml:"clinicalStudies" validate:"min=0"`
	CaseReports                    int `json:"caseReports" yaml:"caseReports" validate:"min=0"`
	RetractedPublications          int `json:"retractedPublications" yaml:"retractedPublications" validate:"min=0"`
	TFPublicationsLastYear         int `json:"tfPublicationsLastYear" yaml:"tfPublicationsLastYear" validate:"min=0"`

	// Coauthor is true when the candidate has coauthored with a manuscript author.
	Coauthor         bool      `json:"coauthor" yaml:"coauthor"`
	CountryMatch     MatchFlag `json:"countryMatch" yaml:"countryMatch" validate:"oneof=yes no"`
	AffiliationMatch MatchFlag `json:"affiliationMatch" yaml:"affiliationMatch" validate:"oneof=yes no"`

	// ConditionsMet counts satisfied validation conditions (0-8).
	ConditionsMet int `json:"conditionsMet" yaml:"conditionsMet" validate:"min=0,max=8"`

	// ConditionsSatisfied is the human-readable summary, e.g. "8 of 8".
	ConditionsSatisfied string `json:"conditionsSatisfied" yaml:"conditionsSatisfied"`
}
