// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shortlist persists per-job reviewer shortlists in a local SQLite
// database and validates reviewer records at the boundary.
package shortlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/pkg/types"
)

const dbFile = "shortlist.db"

// ErrNotFound is returned when a job has no stored shortlist.
var ErrNotFound = errors.New("shortlist not found")

// Store manages the shortlist SQLite database.
type Store struct {
	db      *sql.DB
	now     func() time.Time
	metrics *observability.Metrics
}

// Summary describes one stored shortlist.
type Summary struct {
	JobID     string    `json:"job_id" yaml:"job_id"`
	Reviewers int       `json:"reviewers" yaml:"reviewers"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewStore opens or creates dataDir/shortlist.db and its schema.
func NewStore(cfg types.StoreConfig, metrics *observability.Metrics) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:      db,
		now:     time.Now,
		metrics: metrics,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shortlists (
			job_id TEXT PRIMARY KEY,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reviewers (
			job_id TEXT NOT NULL REFERENCES shortlists(job_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			affiliation TEXT,
			city TEXT,
			country TEXT,
			total_publications INTEGER,
			english_publications INTEGER,
			publications_10_years INTEGER,
			relevant_publications_5_years INTEGER,
			publications_2_years INTEGER,
			publications_last_year INTEGER,
			clinical_trials INTEGER,
			clinical_studies INTEGER,
			case_reports INTEGER,
			retracted_publications INTEGER,
			tf_publications_last_year INTEGER,
			coauthor INTEGER,
			country_match TEXT,
			affiliation_match TEXT,
			conditions_met INTEGER,
			conditions_satisfied TEXT,
			PRIMARY KEY (job_id, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save validates reviewers and replaces the shortlist for jobID, keeping
// their order. An empty list is allowed and stores an empty shortlist.
func (s *Store) Save(ctx context.Context, jobID string, reviewers []types.Reviewer) error {
	if jobID == "" {
		return fmt.Errorf("job ID is required")
	}
	if err := Validate(reviewers); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO shortlists (job_id, updated_at) VALUES (?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET updated_at=excluded.updated_at`,
		jobID, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting shortlist: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviewers WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("deleting old reviewers: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reviewers (job_id, position, name, email, affiliation, city, country,
			total_publications, english_publications, publications_10_years,
			relevant_publications_5_years, publications_2_years, publications_last_year,
			clinical_trials, clinical_studies, case_reports, retracted_publications,
			tf_publications_last_year, coauthor, country_match, affiliation_match,
			conditions_met, conditions_satisfied)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range reviewers {
		_, err := stmt.ExecContext(ctx,
			jobID, i, r.Name, r.Email, r.Affiliation, r.City, r.Country,
			r.TotalPublications, r.EnglishPublications, r.PublicationsLast10Years,
			r.RelevantPublicationsLast5Years, r.PublicationsLast2Years, r.PublicationsLastYear,
			r.ClinicalTrials, r.ClinicalStudies, r.CaseReports, r.RetractedPublications,
			r.TFPublicationsLastYear, r.Coauthor, string(r.CountryMatch), string(r.AffiliationMatch),
			r.ConditionsMet, r.ConditionsSatisfied,
		)
		if err != nil {
			return fmt.Errorf("inserting reviewer %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing shortlist: %w", err)
	}
	s.metrics.RecordShortlistSaved()
	return nil
}

// Load returns the shortlist for jobID in saved order.
func (s *Store) Load(ctx context.Context, jobID string) ([]types.Reviewer, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM shortlists WHERE job_id = ?`, jobID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking shortlist: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, email, affiliation, city, country,
			total_publications, english_publications, publications_10_years,
			relevant_publications_5_years, publications_2_years, publications_last_year,
			clinical_trials, clinical_studies, case_reports, retracted_publications,
			tf_publications_last_year, coauthor, country_match, affiliation_match,
			conditions_met, conditions_satisfied
		FROM reviewers WHERE job_id = ? ORDER BY position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("querying reviewers: %w", err)
	}
	defer rows.Close()

	reviewers := []types.Reviewer{}
	for rows.Next() {
		var (
			r                       types.Reviewer
			email, aff, city, cntry sql.NullString
			countryMatch, affMatch  string
			satisfied               sql.NullString
		)
		if err := rows.Scan(
			&r.Name, &email, &aff, &city, &cntry,
			&r.TotalPublications, &r.EnglishPublications, &r.PublicationsLast10Years,
			&r.RelevantPublicationsLast5Years, &r.PublicationsLast2Years, &r.PublicationsLastYear,
			&r.ClinicalTrials, &r.ClinicalStudies, &r.CaseReports, &r.RetractedPublications,
			&r.TFPublicationsLastYear, &r.Coauthor, &countryMatch, &affMatch,
			&r.ConditionsMet, &satisfied,
		); err != nil {
			return nil, fmt.Errorf("scanning reviewer: %w", err)
		}
		r.Email = email.String
		r.Affiliation = aff.String
		r.City = city.String
		r.Country = cntry.String
		r.CountryMatch = types.MatchFlag(countryMatch)
		r.AffiliationMatch = types.MatchFlag(affMatch)
		r.ConditionsSatisfied = satisfied.String
		reviewers = append(reviewers, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviewers: %w", err)
	}
	return reviewers, nil
}

// List returns a summary of every stored shortlist, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.job_id, s.updated_at, count(r.position)
		FROM shortlists s
		LEFT JOIN reviewers r ON r.job_id = s.job_id
		GROUP BY s.job_id
		ORDER BY s.updated_at DESC, s.job_id`)
	if err != nil {
		return nil, fmt.Errorf("listing shortlists: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated string
		)
		if err := rows.Scan(&sum.JobID, &updated, &sum.Reviewers); err != nil {
			return nil, fmt.Errorf("scanning shortlist: %w", err)
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at for job %s: %w", sum.JobID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the shortlist for jobID.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shortlists WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("deleting shortlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting shortlist: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	return nil
}
