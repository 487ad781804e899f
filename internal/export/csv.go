// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"strconv"
	"strings"

	"github.com/scholarfinder/shortlist/pkg/types"
)

// csvColumns is the fixed header row. Consumers rely on this order.
var csvColumns = []string{
	"Name",
	"Email",
	"Affiliation",
	"City",
	"Country",
	"Total Publications",
	"English Publications",
	"Publications (Last 10 Years)",
	"Relevant Publications (Last 5 Years)",
	"Publications (Last 2 Years)",
	"Publications (Last Year)",
	"Clinical Trials",
	"Clinical Studies",
	"Case Reports",
	"Retracted Publications",
	"T&F Publications (Last Year)",
	"Coauthor",
	"Country Match",
	"Affiliation Match",
	"Conditions Met",
	"Conditions Satisfied",
}

// Columns returns a copy of the CSV header columns.
func Columns() []string {
	return append([]string(nil), csvColumns...)
}

// GenerateCSV renders reviewers as a CSV document: one header row followed by
// one row per reviewer in input order, joined with "\n" and no trailing
// newline.
func GenerateCSV(reviewers []types.Reviewer) (string, error) {
	if len(reviewers) == 0 {
		return "", ErrNoReviewers
	}

	var b strings.Builder
	writeCSVRow(&b, csvColumns)
	for _, r := range reviewers {
		b.WriteByte('\n')
		writeCSVRow(&b, csvRecord(r))
	}
	return b.String(), nil
}

func csvRecord(r types.Reviewer) []string {
	return []string{
		r.Name,
		r.Email,
		r.Affiliation,
		r.City,
		r.Country,
		strconv.Itoa(r.TotalPublications),
		strconv.Itoa(r.EnglishPublications),
		strconv.Itoa(r.PublicationsLast10Years),
		strconv.Itoa(r.RelevantPublicationsLast5Years),
		strconv.Itoa(r.PublicationsLast2Years),
		strconv.Itoa(r.PublicationsLastYear),
		strconv.Itoa(r.ClinicalTrials),
		strconv.Itoa(r.ClinicalStudies),
		strconv.Itoa(r.CaseReports),
		strconv.Itoa(r.RetractedPublications),
		strconv.Itoa(r.TFPublicationsLastYear),
		yesNo(r.Coauthor),
		string(r.CountryMatch),
		string(r.AffiliationMatch),
		strconv.Itoa(r.ConditionsMet),
		r.ConditionsSatisfied,
	}
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(f))
	}
}

// escapeCSV quotes a field only when it contains a comma, a double quote, or
// a line break, doubling embedded quotes.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
