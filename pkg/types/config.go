package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholarfinder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig holds settings for the ScholarFinder API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the ScholarFinder API (e.g. "https://api.example.org/prod").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is sent as X-API-Key when set.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the local shortlist database.
type StoreConfig struct {
	// DataDir contains shortlist.db.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExportConfig holds settings for file exports.
type ExportConfig struct {
	// OutDir is where exported files are written.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Format is the default export format: csv, json, or yaml.
	Format string `json:"format" yaml:"format"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string        `json:"address" yaml:"address"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format"`

	// Output is stdout or stderr.
	Output string `json:"output" yaml:"output"`
}

// Config groups all settings for the scholarfinder CLI.
type Config struct {
	API    APIConfig    `json:"api" yaml:"api"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
