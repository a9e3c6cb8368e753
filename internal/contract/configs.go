package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/marcomd/metricmind/schema"
)

// Default values for configuration.
const (
	DefaultBatchSize   = 100
	DefaultLimit       = 500
	DefaultTimeoutSecs = 60
	DefaultMaxRetries  = 3
	MaxBatchSize       = 5000
)

// DefaultArtifactPath is where extraction output lands unless overridden.
const DefaultArtifactPath = "metricmind-extract.json"

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateOnlyFormat is accepted for window boundaries on the command line.
const DateOnlyFormat = "2006-01-02"

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath     string    // Absolute path to the working copy (extract, run)
	StartTime    time.Time // Start of the extraction window (zero = full history)
	EndTime      time.Time // End of the extraction window
	ArtifactPath string    // Extraction artifact file to write/read
	RepoName     string    // Repository scope for load/categorize/weights/clean

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	BatchSize int // Commit insert / categorization batch size
	Limit     int // Max commits per categorization run

	Strategy         schema.Strategy
	Provider         schema.ProviderKind
	Model            string
	ProviderBaseURL  string
	Timeout          time.Duration // Per LLM call
	MaxRetries       int
	StrictCategories bool // Reject numeric/version/issue-like category names

	DryRun    bool
	Confirmed bool // Explicit --yes for destructive operations
	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Start        string `mapstructure:"start"`
	End          string `mapstructure:"end"`
	ArtifactPath string `mapstructure:"artifact"`
	RepoName     string `mapstructure:"name"`

	Backend   string `mapstructure:"backend"`
	DBConnect string `mapstructure:"db-connect"`

	BatchSize int `mapstructure:"batch-size"`
	Limit     int `mapstructure:"limit"`

	Strategy   string `mapstructure:"strategy"`
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
	Timeout    int    `mapstructure:"timeout"`
	MaxRetries int    `mapstructure:"max-retries"`
	Strict     bool   `mapstructure:"strict"`

	DryRun bool   `mapstructure:"dry-run"`
	Yes    bool   `mapstructure:"yes"`
	Color  string `mapstructure:"color"`
}

// ProcessAndValidate turns raw input into a validated Config.
// Provider credentials are checked later, at categorization startup,
// so non-AI stages never require an API key.
func ProcessAndValidate(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	absPath, err := filepath.Abs(input.RepoPathStr)
	if err != nil {
		return fmt.Errorf("invalid repository path %q: %w", input.RepoPathStr, err)
	}
	cfg.RepoPath = absPath

	cfg.StartTime, err = parseTimeInput(input.Start)
	if err != nil {
		return fmt.Errorf("invalid --start value %q: %w", input.Start, err)
	}
	cfg.EndTime, err = parseTimeInput(input.End)
	if err != nil {
		return fmt.Errorf("invalid --end value %q: %w", input.End, err)
	}
	if cfg.EndTime.IsZero() {
		cfg.EndTime = time.Now()
	}
	if !cfg.StartTime.IsZero() && !cfg.StartTime.Before(cfg.EndTime) {
		return fmt.Errorf("empty date window: start %s is not before end %s",
			cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}

	cfg.ArtifactPath = input.ArtifactPath
	cfg.RepoName = input.RepoName

	switch backend := schema.DatabaseBackend(input.Backend); backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		cfg.Backend = backend
	default:
		return fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, or postgresql", input.Backend)
	}
	cfg.DBConnect = input.DBConnect

	if input.BatchSize < 1 || input.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatchSize, input.BatchSize)
	}
	cfg.BatchSize = input.BatchSize

	if input.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", input.Limit)
	}
	cfg.Limit = input.Limit

	switch strategy := schema.Strategy(input.Strategy); strategy {
	case schema.PatternStrategy, schema.AIStrategy:
		cfg.Strategy = strategy
	default:
		return fmt.Errorf("unsupported strategy: %s. Must be pattern or ai", input.Strategy)
	}

	switch provider := schema.ProviderKind(input.Provider); provider {
	case schema.AnthropicProvider, schema.OllamaProvider, schema.MockProvider:
		cfg.Provider = provider
	default:
		return fmt.Errorf("unsupported provider: %s. Must be anthropic, ollama, or mock", input.Provider)
	}
	cfg.Model = input.Model
	cfg.ProviderBaseURL = input.BaseURL

	if input.Timeout < 1 {
		return fmt.Errorf("timeout must be a positive number of seconds, got %d", input.Timeout)
	}
	cfg.Timeout = time.Duration(input.Timeout) * time.Second

	if input.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got %d", input.MaxRetries)
	}
	cfg.MaxRetries = input.MaxRetries

	cfg.StrictCategories = input.Strict
	cfg.DryRun = input.DryRun
	cfg.Confirmed = input.Yes
	cfg.UseColors = parseBoolean(input.Color)

	return nil
}

// parseTimeInput accepts RFC3339 or a bare date. Empty input yields zero time.
func parseTimeInput(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateOnlyFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s or %s", DateTimeFormat, DateOnlyFormat)
	}
	return t, nil
}

// parseBoolean interprets the yes/no style string flags.
func parseBoolean(s string) bool {
	switch s {
	case "yes", "true", "1", "":
		return true
	default:
		return false
	}
}
