// Package load merges extraction artifacts into persistent storage.
package load

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

// commitDateFormats are tried in order when parsing an artifact commit date.
// The last entry is git's legacy default date representation, kept for
// artifacts whose author dates failed ISO normalization at parse time.
var commitDateFormats = []string{
	time.RFC3339,
	"Mon Jan 2 15:04:05 2006 -0700",
}

// ReadArtifact deserializes an extraction artifact from a file.
func ReadArtifact(path string) (*schema.ExtractionArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction artifact %q: %w", path, err)
	}
	var artifact schema.ExtractionArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse extraction artifact %q: %w", path, err)
	}
	if artifact.Repository.Name == "" {
		return nil, fmt.Errorf("extraction artifact %q has no repository name", path)
	}
	return &artifact, nil
}

// Run merges one artifact into storage. Loading is idempotent: a commit row
// that already exists for (repository, hash) is counted as skipped, including
// when a concurrent loader wins the insert race.
func Run(ctx context.Context, store contract.Store, artifact *schema.ExtractionArtifact, batchSize int) (*schema.LoadResult, error) {
	result := &schema.LoadResult{}

	repo, err := upsertRepository(ctx, store.Repositories(), artifact, result)
	if err != nil {
		return result, err
	}

	for start := 0; start < len(artifact.Commits); start += batchSize {
		end := min(start+batchSize, len(artifact.Commits))
		loadBatch(ctx, store.Commits(), repo.ID, artifact.Commits[start:end], result)
	}

	// Aggregate views are external consumers; a refresh failure is not fatal.
	if err := store.RefreshReportingViews(ctx); err != nil {
		contract.LogWarn(fmt.Sprintf("failed to refresh reporting views: %v", err))
	}

	return result, nil
}

// upsertRepository matches by name. An existing row only gets its extraction
// timestamp updated; name, url and description are never overwritten from an
// artifact.
func upsertRepository(ctx context.Context, repos contract.RepositoryStore, artifact *schema.ExtractionArtifact, result *schema.LoadResult) (*schema.Repository, error) {
	repo, err := repos.FindByName(ctx, artifact.Repository.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up repository %q: %w", artifact.Repository.Name, err)
	}
	if repo == nil {
		extractedAt := artifact.ExtractedAt
		repo = &schema.Repository{
			Name:            artifact.Repository.Name,
			URL:             artifact.Repository.Path,
			LastExtractedAt: &extractedAt,
		}
		if err := repos.Insert(ctx, repo); err != nil {
			return nil, fmt.Errorf("failed to create repository %q: %w", repo.Name, err)
		}
		result.RepositoriesCreated++
		return repo, nil
	}

	if err := repos.TouchLastExtracted(ctx, repo.ID, artifact.ExtractedAt); err != nil {
		return nil, fmt.Errorf("failed to update repository %q: %w", repo.Name, err)
	}
	result.RepositoriesUpdated++
	return repo, nil
}

// loadBatch inserts one fixed-size group of records. A bad record increments
// the error counter and never aborts the batch.
func loadBatch(ctx context.Context, commits contract.CommitStore, repoID int64, records []schema.ArtifactCommit, result *schema.LoadResult) {
	for _, record := range records {
		exists, err := commits.Exists(ctx, repoID, record.Hash)
		if err != nil {
			result.CommitsErrored++
			contract.LogWarn(fmt.Sprintf("failed existence check for commit %s: %v", record.Hash, err))
			continue
		}
		if exists {
			result.CommitsSkipped++
			continue
		}

		commit, err := toCommit(repoID, record)
		if err != nil {
			result.CommitsErrored++
			contract.LogWarn(fmt.Sprintf("skipping commit %s: %v", record.Hash, err))
			continue
		}

		switch err := commits.Insert(ctx, commit); {
		case err == nil:
			result.CommitsInserted++
		case errors.Is(err, contract.ErrDuplicateCommit):
			// Raced with a concurrent loader; same outcome as the pre-check.
			result.CommitsSkipped++
		default:
			result.CommitsErrored++
			contract.LogWarn(fmt.Sprintf("failed to insert commit %s: %v", record.Hash, err))
		}
	}
}

func toCommit(repoID int64, record schema.ArtifactCommit) (*schema.Commit, error) {
	commitDate, err := parseCommitDate(record.CommitDate)
	if err != nil {
		return nil, err
	}

	weight := record.Weight
	if weight < schema.ZeroWeight || weight > schema.DefaultWeight {
		weight = schema.DefaultWeight
	}

	return &schema.Commit{
		RepositoryID: repoID,
		Hash:         record.Hash,
		AuthorName:   record.AuthorName,
		AuthorEmail:  record.AuthorEmail,
		Subject:      record.Subject,
		Body:         record.Body,
		LinesAdded:   record.LinesAdded,
		LinesDeleted: record.LinesDeleted,
		FilesChanged: record.FilesChanged,
		CommitDate:   commitDate,
		Weight:       weight,
		AITools:      record.AITools,
		Category:     record.Category,
		AIConfidence: record.AIConfidence,
	}, nil
}

func parseCommitDate(raw string) (time.Time, error) {
	for _, format := range commitDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable commit date %q", raw)
}
