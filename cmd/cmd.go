// Package cmd defines the command-line interface for metricmind.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("start", "", "Window start in ISO8601 or YYYY-MM-DD")
	rootCmd.PersistentFlags().String("end", "", "Window end in ISO8601 or YYYY-MM-DD (default: now)")
	rootCmd.PersistentFlags().StringP("artifact", "a", contract.DefaultArtifactPath, "Path of the extraction artifact to write/read")
	rootCmd.PersistentFlags().StringP("name", "n", "", "Repository name scope for database stages")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Database backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("batch-size", contract.DefaultBatchSize, "Commits per insert batch")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultLimit, "Max commits per categorization run")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of categorizeCmd to Viper
	categorizeCmd.Flags().String("strategy", string(schema.PatternStrategy), "Categorization strategy: pattern or ai")
	categorizeCmd.Flags().String("provider", string(schema.AnthropicProvider), "LLM provider: anthropic or ollama or mock")
	categorizeCmd.Flags().String("model", "", "Model override for the selected provider")
	categorizeCmd.Flags().String("base-url", "", "Base URL override for the selected provider")
	categorizeCmd.Flags().Int("timeout", contract.DefaultTimeoutSecs, "Per-call LLM timeout in seconds")
	categorizeCmd.Flags().Int("max-retries", contract.DefaultMaxRetries, "Retries per commit on timeout or transport errors")
	categorizeCmd.Flags().Bool("strict", false, "Reject numeric, version-like and issue-like category names")
	if err := viper.BindPFlags(categorizeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding categorize flags", err)
	}

	// Bind all flags of weightsCmd to Viper
	weightsCmd.Flags().Bool("dry-run", false, "Report what would be zeroed without writing")
	if err := viper.BindPFlags(weightsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding weights flags", err)
	}

	// Bind all flags of cleanCmd to Viper
	cleanCmd.Flags().Bool("yes", false, "Confirm deletion without prompting")
	if err := viper.BindPFlags(cleanCmd.Flags()); err != nil {
		contract.LogFatal("Error binding clean flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
