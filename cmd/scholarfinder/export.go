// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarfinder/shortlist/internal/download"
	"github.com/scholarfinder/shortlist/internal/export"
	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/internal/shortlist"
	"github.com/scholarfinder/shortlist/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a shortlist to CSV, JSON or YAML",
	Long: `Export writes a job's shortlist (or a reviewer file given with --file) to
reviewers-YYYY-MM-DD.<ext> in the export directory, or to stdout with --stdout.

CSV has one header row and one row per reviewer. JSON and YAML wrap the
reviewers in a document with the export date and reviewer count.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("job-id", "", "export the stored shortlist for this job")
	exportCmd.Flags().String("file", "", "export a reviewer list read from a .json or .yaml file")
	exportCmd.Flags().StringP("format", "f", "", "export format: csv, json, or yaml (default csv)")
	exportCmd.Flags().String("out-dir", "", "directory for exported files (default exports)")
	exportCmd.Flags().Bool("stdout", false, "write the export to stdout instead of a file")
	exportCmd.MarkFlagsMutuallyExclusive("job-id", "file")
	exportCmd.MarkFlagsOneRequired("job-id", "file")
	exportCmd.MarkFlagsMutuallyExclusive("out-dir", "stdout")

	_ = viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.out_dir", exportCmd.Flags().Lookup("out-dir"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	reviewers, log, err := exportSource(cmd, cfg)
	if err != nil {
		return err
	}

	var saver export.Saver
	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		saver = download.WriterSaver{W: cmd.OutOrStdout()}
	} else {
		saver = download.DirSaver{
			Dir: cfg.Export.OutDir,
			Written: func(path string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d reviewer(s) to %s\n", len(reviewers), path)
			},
		}
	}

	exp := export.NewExporter(saver, export.WithLogger(log))
	if err := exp.Export(format, reviewers); err != nil {
		// The exporter already logged the cause.
		var verr *export.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", err, verr.Message)
		}
		return err
	}
	return nil
}

// exportSource loads reviewers from --file or from the stored shortlist.
func exportSource(cmd *cobra.Command, cfg types.Config) ([]types.Reviewer, zerolog.Logger, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		reviewers, err := shortlist.ReadFile(path)
		return reviewers, logger.With().Str("file", path).Logger(), err
	}

	jobID, _ := cmd.Flags().GetString("job-id")
	log := observability.WithJob(logger, jobID)

	store, err := openStore(cfg)
	if err != nil {
		return nil, log, err
	}
	defer store.Close()

	reviewers, err := store.Load(cmd.Context(), jobID)
	return reviewers, log, err
}
