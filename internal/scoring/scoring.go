// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring evaluates the eight reviewer conditions applied during
// candidate validation and ranks reviewers by how many they meet.
package scoring

import (
	"fmt"
	"sort"

	"github.com/scholarfinder/shortlist/pkg/types"
)

// TotalConditions is the number of conditions a reviewer is scored against.
const TotalConditions = 8

// Thresholds holds the numeric cut-offs for the publication conditions.
type Thresholds struct {
	// MinPublications10Years is the minimum publication count over ten years.
	MinPublications10Years int

	// MinRelevant5Years is the minimum keyword-relevant count over five years.
	MinRelevant5Years int

	// MinPublications2Years is the minimum publication count over two years.
	MinPublications2Years int

	// MinEnglishShare is the English share of total publications that must be exceeded.
	MinEnglishShare float64

	// RetractedAbove is the retracted count that must be exceeded.
	RetractedAbove int
}

// DefaultThresholds returns the cut-offs used by the ScholarFinder API.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPublications10Years: 8,
		MinRelevant5Years:      3,
		MinPublications2Years:  1,
		MinEnglishShare:        0.5,
		RetractedAbove:         1,
	}
}

// Conditions records which individual conditions a reviewer satisfied.
type Conditions struct {
	Publications10Years  bool `json:"publications10Years" yaml:"publications10Years"`
	Relevant5Years       bool `json:"relevant5Years" yaml:"relevant5Years"`
	Publications2Years   bool `json:"publications2Years" yaml:"publications2Years"`
	English              bool `json:"english" yaml:"english"`
	NotCoauthor          bool `json:"notCoauthor" yaml:"notCoauthor"`
	DifferentAffiliation bool `json:"differentAffiliation" yaml:"differentAffiliation"`
	CountryMatch         bool `json:"countryMatch" yaml:"countryMatch"`
	Retracted            bool `json:"retracted" yaml:"retracted"`
}

// Met returns the number of satisfied conditions.
func (c Conditions) Met() int {
	n := 0
	for _, ok := range []bool{
		c.Publications10Years, c.Relevant5Years, c.Publications2Years, c.English,
		c.NotCoauthor, c.DifferentAffiliation, c.CountryMatch, c.Retracted,
	} {
		if ok {
			n++
		}
	}
	return n
}

// Satisfied formats a met count as "N of 8".
func Satisfied(met int) string {
	return fmt.Sprintf("%d of %d", met, TotalConditions)
}

// Scorer evaluates reviewers against a set of thresholds.
type Scorer struct {
	t Thresholds
}

// NewScorer returns a Scorer using t.
func NewScorer(t Thresholds) *Scorer {
	return &Scorer{t: t}
}

// Evaluate checks every condition for r.
func (s *Scorer) Evaluate(r types.Reviewer) Conditions {
	english := r.TotalPublications > 0 &&
		float64(r.EnglishPublications)/float64(r.TotalPublications) > s.t.MinEnglishShare

	return Conditions{
		Publications10Years:  r.PublicationsLast10Years >= s.t.MinPublications10Years,
		Relevant5Years:       r.RelevantPublicationsLast5Years >= s.t.MinRelevant5Years,
		Publications2Years:   r.PublicationsLast2Years >= s.t.MinPublications2Years,
		English:              english,
		NotCoauthor:          !r.Coauthor,
		DifferentAffiliation: r.AffiliationMatch == types.MatchNo,
		CountryMatch:         r.CountryMatch == types.MatchYes,
		Retracted:            r.RetractedPublications > s.t.RetractedAbove,
	}
}

// Apply returns a copy of r with ConditionsMet and ConditionsSatisfied set.
func (s *Scorer) Apply(r types.Reviewer) types.Reviewer {
	met := s.Evaluate(r).Met()
	r.ConditionsMet = met
	r.ConditionsSatisfied = Satisfied(met)
	return r
}

// ApplyAll scores every reviewer and returns them ranked.
func (s *Scorer) ApplyAll(reviewers []types.Reviewer) []types.Reviewer {
	out := make([]types.Reviewer, len(reviewers))
	for i, r := range reviewers {
		out[i] = s.Apply(r)
	}
	Rank(out)
	return out
}

// Rank sorts reviewers by ConditionsMet, highest first. Ties keep their
// input order.
func Rank(reviewers []types.Reviewer) {
	sort.SliceStable(reviewers, func(i, j int) bool {
		return reviewers[i].ConditionsMet > reviewers[j].ConditionsMet
	})
}
