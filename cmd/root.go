package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/store"
	"github.com/marcomd/metricmind/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// db is the shared store handle, opened by sharedSetup.
var db contract.Store

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "metricmind",
	Short:              "Turn raw Git history into categorized, weighted commit signals.",
	Long:               `MetricMind extracts commit history into portable artifacts, loads them into a database, and derives categories and validity weights for downstream reporting.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if db != nil {
			_ = db.Close()
		}
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".metricmind") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("METRICMIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("artifact", contract.DefaultArtifactPath)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("batch-size", contract.DefaultBatchSize)
	viper.SetDefault("limit", contract.DefaultLimit)
	viper.SetDefault("strategy", schema.PatternStrategy)
	viper.SetDefault("provider", schema.AnthropicProvider)
	viper.SetDefault("timeout", contract.DefaultTimeoutSecs)
	viper.SetDefault("max-retries", contract.DefaultMaxRetries)
	viper.SetDefault("color", "yes")
}

// configSetup merges config sources and runs validation, without touching
// the database. Extraction-only commands stop here.
func configSetup(ctx context.Context, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.RepoPathStr = args[0]
	} else {
		input.RepoPathStr = "."
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(ctx, cfg, input); err != nil {
		return err
	}

	color.NoColor = !cfg.UseColors
	return nil
}

// sharedSetup runs configSetup and opens the store.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	if err := configSetup(ctx, args); err != nil {
		return err
	}

	s, err := store.Open(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	db = s
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configSetupWrapper provides PreRunE for commands that never open the store.
func configSetupWrapper(_ *cobra.Command, args []string) error {
	return configSetup(rootCtx, args)
}

// resolveRepoID maps a repository name to its row ID. An empty name yields
// zero, which store queries interpret as "all repositories".
func resolveRepoID(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, nil
	}
	repo, err := db.Repositories().FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if repo == nil {
		return 0, fmt.Errorf("repository %q is not loaded. Run 'metricmind load' first", name)
	}
	return repo.ID, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
