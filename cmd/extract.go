package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marcomd/metricmind/core/extract"
	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/report"
)

// extractCmd turns git history into a portable extraction artifact.
var extractCmd = &cobra.Command{
	Use:   "extract [repo-path]",
	Short: "Extract commit history into a JSON artifact.",
	Long: `Read the Git log of a working copy and write a self-describing JSON
artifact with per-commit metadata, line stats and AI tool declarations.

The artifact is the only input the load stage needs, so extraction can run
on a build agent and loading can happen elsewhere.

Examples:
  # Extract the last quarter of the current repository
  metricmind extract --start 2026-06-01

  # Extract a specific working copy into a named artifact
  metricmind extract ~/src/billing --start 2026-01-01 --end 2026-06-30 --artifact billing.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := contract.NewLocalGitClient()
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
	},
}
