// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarfinder/shortlist/internal/scholarfinder"
	"github.com/scholarfinder/shortlist/internal/scoring"
	"github.com/scholarfinder/shortlist/internal/shortlist"
	"github.com/scholarfinder/shortlist/pkg/types"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Manage stored reviewer shortlists (list, show, import, rescore, delete)",
	Long: `Shortlist manages the local SQLite database of per-job reviewer
shortlists. Use subcommands to inspect, import, rescore or delete them.`,
}

// --- list subcommand ---

var shortlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored shortlists",
	RunE:  runShortlistList,
}

func runShortlistList(cmd *cobra.Command, args []string) error {
	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if list == nil {
			list = []shortlist.Summary{}
		}
		return writeIndentedJSON(out, list)
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No shortlists stored.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-9s  %s\n", "Job", "Reviewers", "Updated")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, s := range list {
		fmt.Fprintf(out, "%-36s  %-9d  %s\n", s.JobID, s.Reviewers, s.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// --- show subcommand ---

var shortlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the reviewers in a job's shortlist",
	RunE:  runShortlistShow,
}

func runShortlistShow(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetString("job-id")

	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	reviewers, err := store.Load(cmd.Context(), jobID)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatShortlist(cmd.OutOrStdout(), reviewers, jsonOutput)
}

func formatShortlist(out io.Writer, reviewers []types.Reviewer, jsonOutput bool) error {
	if jsonOutput {
		return writeIndentedJSON(out, reviewers)
	}

	if len(reviewers) == 0 {
		fmt.Fprintln(out, "Shortlist is empty.")
		return nil
	}

	fmt.Fprintf(out, "%-4s  %-30s  %-30s  %-12s  %-6s  %s\n",
		"Rank", "Name", "Affiliation", "Country", "Pubs", "Conditions")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for i, r := range reviewers {
		fmt.Fprintf(out, "%-4d  %-30s  %-30s  %-12s  %-6d  %s\n",
			i+1, truncate(r.Name, 30), truncate(r.Affiliation, 30), truncate(r.Country, 12),
			r.TotalPublications, r.ConditionsSatisfied)
	}

	fmt.Fprintf(out, "\n%d reviewers\n", len(reviewers))
	return nil
}

// --- import subcommand ---

var shortlistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a reviewer list from a YAML or JSON file",
	Long: `Import reads a reviewer list (.json, .yaml or .yml) and stores it as the
shortlist for --job-id, replacing any previous shortlist.`,
	Args: cobra.ExactArgs(1),
	RunE: runShortlistImport,
}

func runShortlistImport(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetString("job-id")
	jobID, err := scholarfinder.ParseJobID(jobID)
	if err != nil {
		return err
	}

	reviewers, err := shortlist.ReadFile(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(cmd.Context(), jobID, reviewers); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d reviewer(s) for job %s\n", len(reviewers), jobID)
	return nil
}

// --- rescore subcommand ---

var shortlistRescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Recompute validation conditions and re-rank a shortlist",
	RunE:  runShortlistRescore,
}

func runShortlistRescore(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetString("job-id")

	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	reviewers, err := store.Load(cmd.Context(), jobID)
	if err != nil {
		return err
	}
	reviewers = scoring.NewScorer(scoring.DefaultThresholds()).ApplyAll(reviewers)
	if err := store.Save(cmd.Context(), jobID, reviewers); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatShortlist(cmd.OutOrStdout(), reviewers, jsonOutput)
}

// --- delete subcommand ---

var shortlistDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a job's shortlist",
	RunE:  runShortlistDelete,
}

func runShortlistDelete(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetString("job-id")

	store, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), jobID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted shortlist for job %s\n", jobID)
	return nil
}

// --- shared helpers ---

func openStore(cfg types.Config) (*shortlist.Store, error) {
	return shortlist.NewStore(cfg.Store, nil)
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	for _, c := range []*cobra.Command{shortlistShowCmd, shortlistImportCmd, shortlistRescoreCmd, shortlistDeleteCmd} {
		c.Flags().String("job-id", "", "ScholarFinder job ID")
		_ = c.MarkFlagRequired("job-id")
	}
	shortlistListCmd.Flags().Bool("json", false, "output as JSON")
	shortlistShowCmd.Flags().Bool("json", false, "output as JSON")
	shortlistRescoreCmd.Flags().Bool("json", false, "output as JSON")

	shortlistCmd.AddCommand(shortlistListCmd)
	shortlistCmd.AddCommand(shortlistShowCmd)
	shortlistCmd.AddCommand(shortlistImportCmd)
	shortlistCmd.AddCommand(shortlistRescoreCmd)
	shortlistCmd.AddCommand(shortlistDeleteCmd)

	rootCmd.AddCommand(shortlistCmd)
}
