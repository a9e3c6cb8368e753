// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/marcomd/metricmind/schema"
)

// ErrDuplicateCommit is returned by CommitStore.Insert when the
// (repository, hash) pair already exists. Loaders count it as a skip.
var ErrDuplicateCommit = errors.New("commit already exists for repository and hash")

// GitClient defines the necessary operations for commit extraction.
// This allows the extraction logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output. On a non-zero
	// exit the error carries the command's combined output for diagnosis.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the working
	// copy containing the given path, or an error if it is not one.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetOriginURL returns the URL of the "origin" remote, or an empty
	// string when the repository has no remote configured.
	GetOriginURL(ctx context.Context, repoPath string) (string, error)

	// GetCommitLog returns raw log output in the fixed field-delimited
	// format consumed by the log parser, restricted to the given window.
	GetCommitLog(ctx context.Context, repoPath string, startTime, endTime time.Time) ([]byte, error)
}

// RepositoryStore is the narrow storage interface for repository rows.
type RepositoryStore interface {
	// FindByName returns the repository with the given name, or nil when absent.
	FindByName(ctx context.Context, name string) (*schema.Repository, error)

	// Insert stores a new repository and populates its ID.
	Insert(ctx context.Context, repo *schema.Repository) error

	// TouchLastExtracted updates only the last-extraction timestamp.
	TouchLastExtracted(ctx context.Context, id int64, at time.Time) error

	// Delete removes a repository and, by cascade, its commits.
	Delete(ctx context.Context, id int64) error
}

// CommitStore is the narrow storage interface for commit rows.
type CommitStore interface {
	// Exists reports whether a commit row exists for the pair.
	Exists(ctx context.Context, repoID int64, hash string) (bool, error)

	// Insert stores a new commit and populates its ID. A uniqueness
	// violation is mapped to ErrDuplicateCommit.
	Insert(ctx context.Context, c *schema.Commit) error

	// CountByRepo returns the number of commits owned by a repository.
	CountByRepo(ctx context.Context, repoID int64) (int, error)

	// ListUncategorized returns commits with no category yet, oldest first.
	ListUncategorized(ctx context.Context, repoID int64, limit int) ([]schema.Commit, error)

	// ListForAICategorization returns commits that are uncategorized or
	// whose AI confidence is below the settled threshold, oldest first.
	ListForAICategorization(ctx context.Context, repoID int64, limit int) ([]schema.Commit, error)

	// ListForWeighing returns id, subject and weight for every commit,
	// scoped to one repository when repoID is positive.
	ListForWeighing(ctx context.Context, repoID int64) ([]schema.Commit, error)

	// UpdateCategory sets the category and, for the AI path, the confidence.
	UpdateCategory(ctx context.Context, id int64, category string, confidence *int) error

	// UpdateWeight sets the validity weight.
	UpdateWeight(ctx context.Context, id int64, weight int) error
}

// CategoryStore is the narrow storage interface for the approved vocabulary.
type CategoryStore interface {
	// ListNames returns every approved category name, alphabetically.
	ListNames(ctx context.Context) ([]string, error)

	// FindByName returns the category with the given name, or nil when absent.
	FindByName(ctx context.Context, name string) (*schema.Category, error)

	// Insert stores a new vocabulary entry and populates its ID.
	Insert(ctx context.Context, cat *schema.Category) error

	// IncrementUsage bumps the usage counter for a category by name.
	IncrementUsage(ctx context.Context, name string) error

	// SeedFromCommits inserts every distinct commit category that passes
	// validation and is not yet in the vocabulary. Returns entries added.
	SeedFromCommits(ctx context.Context) (int, error)
}

// Store bundles the per-entity stores over one database handle.
type Store interface {
	Repositories() RepositoryStore
	Commits() CommitStore
	Categories() CategoryStore

	// RefreshReportingViews refreshes downstream aggregate views where the
	// backend supports them. Callers treat failure as non-fatal.
	RefreshReportingViews(ctx context.Context) error

	// Status returns row counts per table for diagnostics.
	Status(ctx context.Context) (schema.StoreStatus, error)

	Close() error
}
