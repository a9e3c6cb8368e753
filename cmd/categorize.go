package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcomd/metricmind/core/categorize"
	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/llm"
	"github.com/marcomd/metricmind/internal/report"
	"github.com/marcomd/metricmind/schema"
)

// categorizeCmd derives categories for loaded commits.
var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign categories to loaded commits.",
	Long: `Derive a category for each loaded commit, using one of two strategies.

The pattern strategy inspects commit subjects for structural markers
(pipe prefixes, bracket tags, leading all-caps tokens) and costs nothing.
The ai strategy asks an LLM provider to pick from, or extend, the
approved vocabulary, and skips commits whose previous answer is already
confident enough.

Examples:
  # Cheap structural pass over one repository
  metricmind categorize --name billing

  # AI pass with a local Ollama model
  metricmind categorize --name billing --strategy ai --provider ollama --model llama3.1

  # AI pass with strict category validation
  metricmind categorize --name billing --strategy ai --strict`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		repoID, err := resolveRepoID(rootCtx, cfg.RepoName)
		if err != nil {
			contract.LogFatal("Cannot resolve repository", err)
		}

		result, err := runCategorize(repoID)
		if err != nil {
			contract.LogFatal("Cannot categorize commits", err)
		}
		if err := report.WriteCategorizeResult(os.Stdout, result, cfg.Strategy); err != nil {
			contract.LogFatal("Cannot write categorize summary", err)
		}
	},
}

// runCategorize dispatches to the configured strategy.
func runCategorize(repoID int64) (*schema.CategorizeResult, error) {
	if cfg.Strategy == schema.PatternStrategy {
		return categorize.RunPattern(rootCtx, db, repoID, cfg.Limit)
	}

	provider, err := llm.NewProvider(llm.Config{
		Kind:    cfg.Provider,
		Model:   cfg.Model,
		BaseURL: cfg.ProviderBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot configure %s provider: %w", cfg.Provider, err)
	}

	// Bootstrap the vocabulary from categories already on commit rows,
	// so a fresh database still offers the model a useful menu.
	seeded, err := db.Categories().SeedFromCommits(rootCtx)
	if err != nil {
		return nil, fmt.Errorf("cannot seed category vocabulary: %w", err)
	}
	if seeded > 0 {
		fmt.Printf("Seeded %d categories from existing commits\n", seeded)
	}

	engine := categorize.NewEngine(db, provider, cfg)
	return engine.Run(rootCtx, repoID, cfg.Limit)
}
