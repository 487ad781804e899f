// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholarfinder CLI.
// It fetches recommended reviewers, keeps per-job shortlists, exports them
// as CSV, JSON or YAML, and serves the same operations over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarfinder/shortlist/internal/observability"
	"github.com/scholarfinder/shortlist/internal/secrets"
	"github.com/scholarfinder/shortlist/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "scholarfinder-shortlist/0.1"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger is configured in PersistentPreRunE.
	logger = zerolog.Nop()
)

// rootCmd is the base command for the scholarfinder CLI.
var rootCmd = &cobra.Command{
	Use:   "scholarfinder",
	Short: "Shortlist and export peer reviewers from ScholarFinder",
	Long: `scholarfinder pulls recommended reviewers for a manuscript job from the
ScholarFinder API, keeps a local shortlist per job, and exports shortlists as
CSV, JSON or YAML files.

Subcommands: fetch, shortlist, export, serve and version.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = observability.NewLogger(loadConfig().Log)

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./scholarfinder.yaml or ~/.config/scholarfinder/scholarfinder.yaml)")
	pf.String("data-dir", "data", "directory holding shortlist.db")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: json or console")

	_ = viper.BindPFlag("store.data_dir", pf.Lookup("data-dir"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("api.base_url", "")
	viper.SetDefault("api.timeout", 60*time.Second)
	viper.SetDefault("api.user_agent", defaultUserAgent)
	viper.SetDefault("export.out_dir", "exports")
	viper.SetDefault("export.format", "csv")
	viper.SetDefault("server.address", "127.0.0.1:8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("log.output", "stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholarfinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholarfinder"))
		}
	}

	// SCHOLARFINDER_API_BASE_URL overrides api.base_url.
	viper.SetEnvPrefix("SCHOLARFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from flags, environment,
// config file and defaults.
func loadConfig() types.Config {
	return types.Config{
		API: types.APIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("api.timeout"),
				UserAgent: viper.GetString("api.user_agent"),
			},
			BaseURL: viper.GetString("api.base_url"),
			APIKey:  secrets.Lookup(loadedSecrets, secrets.APIKey, viper.GetString("api.api_key")),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
		Export: types.ExportConfig{
			OutDir: viper.GetString("export.out_dir"),
			Format: viper.GetString("export.format"),
		},
		Server: types.ServerConfig{
			Address:         viper.GetString("server.address"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
			Output: viper.GetString("log.output"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
