package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marcomd/metricmind/core/weight"
	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/report"
)

// weightsCmd zeroes the weight of reverts and reverted commits.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Zero the weight of reverts and the commits they undo.",
	Long: `Scan commit subjects for revert markers and change-request identifiers
(!123, #456) and set the validity weight of both the revert and the
reverted commits to zero, so cancelled work stops counting in reports.

Unreverts are left alone, and already-zero commits are never touched,
which makes repeated runs safe.

Examples:
  # Zero reverts across all repositories
  metricmind weights

  # Preview what one repository's pass would do
  metricmind weights --name billing --dry-run`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		repoID, err := resolveRepoID(rootCtx, cfg.RepoName)
		if err != nil {
			contract.LogFatal("Cannot resolve repository", err)
		}

		result, err := weight.Run(rootCtx, db, repoID, cfg.DryRun)
		if err != nil {
			contract.LogFatal("Cannot calculate weights", err)
		}
		if err := report.WriteWeightResult(os.Stdout, result); err != nil {
			contract.LogFatal("Cannot write weights summary", err)
		}
	},
}
