package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/report"
	"github.com/marcomd/metricmind/schema"
)

// cleanPreviewLimit caps the number of subjects shown before deletion.
const cleanPreviewLimit = 10

// cleanCmd deletes one repository and its commits.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete a repository and all of its commits.",
	Long: `Remove one repository row and, by cascade, every commit loaded for it.

Without --yes the command only reports what would be deleted. The
category vocabulary is never touched, so a later reload keeps its
approved names.

Examples:
  # See what deleting a repository would remove
  metricmind clean --name billing

  # Actually delete it
  metricmind clean --name billing --yes`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.RepoName == "" {
			contract.LogFatal("Cannot clean", fmt.Errorf("--name is required"))
		}

		repo, err := db.Repositories().FindByName(rootCtx, cfg.RepoName)
		if err != nil {
			contract.LogFatal("Cannot resolve repository", err)
		}
		if repo == nil {
			contract.LogFatal("Cannot clean", fmt.Errorf("repository %q is not loaded", cfg.RepoName))
		}

		count, err := db.Commits().CountByRepo(rootCtx, repo.ID)
		if err != nil {
			contract.LogFatal("Cannot count commits", err)
		}

		if err := printCleanPreview(repo.ID); err != nil {
			contract.LogFatal("Cannot list commits", err)
		}

		rep := &schema.CleanReport{RepositoryName: repo.Name, CommitCount: count}
		if cfg.Confirmed {
			if err := db.Repositories().Delete(rootCtx, repo.ID); err != nil {
				contract.LogFatal("Cannot delete repository", err)
			}
			rep.Applied = true
		}
		if err := report.WriteCleanReport(os.Stdout, rep); err != nil {
			contract.LogFatal("Cannot write clean summary", err)
		}
	},
}

// printCleanPreview shows a sample of the commit subjects at stake.
func printCleanPreview(repoID int64) error {
	commits, err := db.Commits().ListForWeighing(rootCtx, repoID)
	if err != nil {
		return err
	}
	shown := len(commits)
	if shown > cleanPreviewLimit {
		shown = cleanPreviewLimit
	}
	for _, c := range commits[:shown] {
		fmt.Printf("  %s\n", report.TruncateSubject(c.Subject, 4))
	}
	if len(commits) > shown {
		fmt.Printf("  ... and %d more\n", len(commits)-shown)
	}
	return nil
}
