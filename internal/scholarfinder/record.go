// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholarfinder

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/scholarfinder/shortlist/internal/scoring"
	"github.com/scholarfinder/shortlist/pkg/types"
)

type recommendedResponse struct {
	JobID         string   `json:"job_id"`
	ReviewerCount int      `json:"reviewer_count"`
	Reviewers     []record `json:"reviewers"`
}

// record is one row of the API's validated author table. Column names are
// the API's, including the stray ")" on two of them.
type record struct {
	Reviewer string `json:"reviewer"`
	Author   string `json:"author"`
	Email    string `json:"email"`
	Aff      string `json:"aff"`
	City     string `json:"city"`
	Country  string `json:"country"`

	TotalPublications      count `json:"Total_Publications"`
	EnglishPubs            count `json:"English_Pubs"`
	Publications10Years    count `json:"Publications_10_years"`
	Relevant5Years         count `json:"Relevant_Publications_5_years"`
	Publications2Years     count `json:"Publications_2_years)"`
	PublicationsLastYear   count `json:"Publications_last_year)"`
	ClinicalTrials         count `json:"Clinical_Trials_no"`
	ClinicalStudies        count `json:"Clinical_study_no"`
	CaseReports            count `json:"Case_reports_no"`
	Retracted              count `json:"Retracted_Pubs_no"`
	TFPublicationsLastYear count `json:"TF_Publications_last_year"`

	Coauthor     flag   `json:"coauthor"`
	CountryMatch string `json:"country_match"`
	AffMatch     string `json:"aff_match"`

	ConditionsMet       *count `json:"conditions_met"`
	ConditionsSatisfied string `json:"conditions_satisfied"`
}

var defaultScorer = scoring.NewScorer(scoring.DefaultThresholds())

func (rec record) toReviewer() types.Reviewer {
	name := rec.Reviewer
	if name == "" {
		name = rec.Author
	}

	r := types.Reviewer{
		Name:                           strings.TrimSpace(name),
		Email:                          strings.TrimSpace(rec.Email),
		Affiliation:                    strings.TrimSpace(rec.Aff),
		City:                           strings.TrimSpace(rec.City),
		Country:                        strings.TrimSpace(rec.Country),
		TotalPublications:              int(rec.TotalPublications),
		EnglishPublications:            int(rec.EnglishPubs),
		PublicationsLast10Years:        int(rec.Publications10Years),
		RelevantPublicationsLast5Years: int(rec.Relevant5Years),
		PublicationsLast2Years:         int(rec.Publications2Years),
		PublicationsLastYear:           int(rec.PublicationsLastYear),
		ClinicalTrials:                 int(rec.ClinicalTrials),
		ClinicalStudies:                int(rec.ClinicalStudies),
		CaseReports:                    int(rec.CaseReports),
		RetractedPublications:          int(rec.Retracted),
		TFPublicationsLastYear:         int(rec.TFPublicationsLastYear),
		Coauthor:                       bool(rec.Coauthor),
		CountryMatch:                   types.ParseMatchFlag(rec.CountryMatch),
		AffiliationMatch:               types.ParseMatchFlag(rec.AffMatch),
	}

	if rec.ConditionsMet == nil {
		return defaultScorer.Apply(r)
	}
	r.ConditionsMet = int(*rec.ConditionsMet)
	r.ConditionsSatisfied = rec.ConditionsSatisfied
	if r.ConditionsSatisfied == "" {
		r.ConditionsSatisfied = scoring.Satisfied(r.ConditionsMet)
	}
	return r
}

// count decodes a non-negative counter that may arrive as an integer, a
// float (pandas upcasts columns containing NaN), a numeric string, or null.
// Anything unparseable, negative, or above math.MaxInt32 decodes as zero.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	*c = 0
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return nil
	}
	*c = count(f)
	return nil
}

// flag decodes a boolean sent as true/false, 0/1, or "True"/"False".
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flag(b)
		return nil
	}
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	switch s {
	case "1", "true", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
