// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/internal/scholarfinder"
	"github.com/scholarfinder/shortlist/internal/scoring"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recommended reviewers for a job into its shortlist",
	Long: `Fetch downloads the recommended reviewers for a ScholarFinder job and
stores them as the job's shortlist, replacing any previous one.

Use --rescore to recompute the eight validation conditions locally and --top
to keep only the highest-ranked reviewers.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("job-id", "", "ScholarFinder job ID (UUID)")
	fetchCmd.Flags().String("api-url", "", "ScholarFinder API base URL")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Bool("rescore", false, "recompute validation conditions locally")
	fetchCmd.Flags().Int("top", 0, "keep only the N best-ranked reviewers (0 = all)")
	_ = fetchCmd.MarkFlagRequired("job-id")

	_ = viper.BindPFlag("api.base_url", fetchCmd.Flags().Lookup("api-url"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.API.Timeout = timeout
	}

	jobID, _ := cmd.Flags().GetString("job-id")
	jobID, err := scholarfinder.ParseJobID(jobID)
	if err != nil {
		return err
	}
	log := observability.WithJob(logger, jobID)

	client, err := scholarfinder.NewClient(cfg.API)
	if err != nil {
		return err
	}

	reviewers, err := client.RecommendedReviewers(cmd.Context(), jobID)
	if err != nil {
		return err
	}
	log.Info().Int("reviewers", len(reviewers)).Msg("fetched recommended reviewers")

	if rescore, _ := cmd.Flags().GetBool("rescore"); rescore {
		reviewers = scoring.NewScorer(scoring.DefaultThresholds()).ApplyAll(reviewers)
	} else {
		scoring.Rank(reviewers)
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < len(reviewers) {
		reviewers = reviewers[:top]
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), jobID, reviewers); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d reviewer(s) for job %s\n", len(reviewers), jobID)
	return nil
}
