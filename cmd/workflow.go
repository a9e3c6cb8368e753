package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcomd/metricmind/core/extract"
	"github.com/marcomd/metricmind/core/load"
	"github.com/marcomd/metricmind/core/weight"
	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/report"
)

// runCmd chains the whole pipeline over one working copy.
var runCmd = &cobra.Command{
	Use:   "run [repo-path]",
	Short: "Run extract, load, categorize and weights in one pass.",
	Long: `Execute the full pipeline against a single working copy: extract its
history into an artifact, load the artifact, categorize the new commits
with the configured strategy, then zero revert weights.

Each stage prints its own summary; a stage failure stops the pipeline.

Examples:
  # Full pass over the current repository with the pattern strategy
  metricmind run --start 2026-06-01

  # Full pass with an AI categorization stage
  metricmind run ~/src/billing --start 2026-01-01 --strategy ai --provider ollama`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := contract.NewLocalGitClient()

		fmt.Println("Stage 1/4: extract")
		artifact, err := extract.Run(rootCtx, cfg, client)
		if err != nil {
			contract.LogFatal("Cannot extract commit history", err)
		}
		if err := extract.WriteArtifact(artifact, cfg.ArtifactPath); err != nil {
			contract.LogFatal("Cannot write extraction artifact", err)
		}
		if err := report.WriteExtractionSummary(os.Stdout, artifact, cfg.ArtifactPath); err != nil {
			contract.LogFatal("Cannot write extraction summary", err)
		}

		fmt.Println("Stage 2/4: load")
		loadResult, err := load.Run(rootCtx, db, artifact, cfg.BatchSize)
		if err != nil {
			contract.LogFatal("Cannot load artifact", err)
		}
		if err := report.WriteLoadResult(os.Stdout, loadResult); err != nil {
			contract.LogFatal("Cannot write load summary", err)
		}

		fmt.Println("Stage 3/4: categorize")
		repoID, err := resolveRepoID(rootCtx, artifact.Repository.Name)
		if err != nil {
			contract.LogFatal("Cannot resolve repository", err)
		}
		catResult, err := runCategorize(repoID)
		if err != nil {
			contract.LogFatal("Cannot categorize commits", err)
		}
		if err := report.WriteCategorizeResult(os.Stdout, catResult, cfg.Strategy); err != nil {
			contract.LogFatal("Cannot write categorize summary", err)
		}

		fmt.Println("Stage 4/4: weights")
		weightResult, err := weight.Run(rootCtx, db, repoID, cfg.DryRun)
		if err != nil {
			contract.LogFatal("Cannot calculate weights", err)
		}
		if err := report.WriteWeightResult(os.Stdout, weightResult); err != nil {
			contract.LogFatal("Cannot write weights summary", err)
		}
	},
}
