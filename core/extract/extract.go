// Package extract drives the log parser against a repository and emits
// a self-describing extraction artifact.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcomd/metricmind/core/gitlog"
	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

// Run extracts the commit history of the configured repository over the
// requested window and returns the artifact for the loader to consume.
func Run(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.ExtractionArtifact, error) {
	root, err := client.GetRepoRoot(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("%q is not a version-control working copy: %w", cfg.RepoPath, err)
	}

	if !cfg.EndTime.After(cfg.StartTime) {
		return nil, fmt.Errorf("empty date window: %s to %s",
			cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat))
	}

	raw, err := client.GetCommitLog(ctx, root, cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, err
	}
	commits := gitlog.ParseLog(raw)

	originURL, err := client.GetOriginURL(ctx, root)
	if err != nil {
		originURL = ""
	}

	artifact := &schema.ExtractionArtifact{
		Repository: schema.ArtifactRepository{
			Name: ResolveRepoName(originURL, root),
			Path: root,
		},
		ExtractedAt: time.Now(),
		Window: schema.ExtractionWindow{
			Start: cfg.StartTime,
			End:   cfg.EndTime,
		},
		Summary: summarize(commits),
		Commits: toArtifactCommits(commits),
	}
	return artifact, nil
}

// WriteArtifact serializes the artifact to the given file path.
func WriteArtifact(artifact *schema.ExtractionArtifact, outPath string) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize extraction artifact: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write extraction artifact to %q: %w", outPath, err)
	}
	return nil
}

// ResolveRepoName derives a display name from the origin URL, stripping
// protocol, credentials and the ".git" suffix. Without a remote it falls
// back to the base name of the working copy directory.
func ResolveRepoName(originURL, repoPath string) string {
	name := strings.TrimSpace(originURL)
	if name != "" {
		if idx := strings.Index(name, "://"); idx >= 0 {
			name = name[idx+3:]
		}
		if idx := strings.LastIndex(name, "@"); idx >= 0 {
			name = name[idx+1:]
		}
		// SCP-style remotes separate host and path with a colon.
		name = strings.ReplaceAll(name, ":", "/")
		name = strings.TrimSuffix(name, "/")
		name = strings.TrimSuffix(name, ".git")
		if base := path.Base(name); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return filepath.Base(repoPath)
}

// summarize computes the artifact's aggregate counts.
func summarize(commits []gitlog.ParsedCommit) schema.ExtractionSummary {
	summary := schema.ExtractionSummary{CommitCount: len(commits)}
	authors := make(map[string]bool)
	for _, c := range commits {
		summary.TotalLinesAdded += c.LinesAdded
		summary.TotalLinesDeleted += c.LinesDeleted
		summary.TotalFilesChanged += c.FilesChanged
		author := c.AuthorEmail
		if author == "" {
			author = c.AuthorName
		}
		authors[author] = true
	}
	summary.DistinctAuthors = len(authors)
	return summary
}

func toArtifactCommits(commits []gitlog.ParsedCommit) []schema.ArtifactCommit {
	out := make([]schema.ArtifactCommit, len(commits))
	for i, c := range commits {
		out[i] = schema.ArtifactCommit{
			Hash:         c.Hash,
			CommitDate:   c.DateRaw,
			AuthorName:   c.AuthorName,
			AuthorEmail:  c.AuthorEmail,
			Subject:      c.Subject,
			Body:         c.Body,
			LinesAdded:   c.LinesAdded,
			LinesDeleted: c.LinesDeleted,
			FilesChanged: c.FilesChanged,
			Weight:       schema.DefaultWeight,
			AITools:      c.AITools,
			Files:        c.Files,
		}
	}
	return out
}
