package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcomd/metricmind/internal/store"
	"github.com/marcomd/metricmind/schema"
)

func openTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	s, err := store.Open(schema.SQLiteBackend, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testArtifact() *schema.ExtractionArtifact {
	return &schema.ExtractionArtifact{
		Repository:  schema.ArtifactRepository{Name: "billing", Path: "/work/billing"},
		ExtractedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Commits: []schema.ArtifactCommit{
			{Hash: "aaa111", CommitDate: "2026-03-15T10:30:00Z", AuthorName: "Alice", AuthorEmail: "alice@example.com", Subject: "BILLING | Add invoice export", LinesAdded: 12, LinesDeleted: 3, FilesChanged: 1, Weight: 100},
			{Hash: "bbb222", CommitDate: "2026-03-16T09:00:00Z", AuthorName: "Bob", AuthorEmail: "bob@example.com", Subject: "Fix typo", LinesAdded: 1, LinesDeleted: 1, FilesChanged: 1, Weight: 100},
			{Hash: "ccc333", CommitDate: "Mon Mar 16 11:22:33 2026 +0100", AuthorName: "Bob", AuthorEmail: "bob@example.com", Subject: "Legacy date format", Weight: 100},
		},
	}
}

func TestRunFreshLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	result, err := Run(ctx, s, testArtifact(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RepositoriesCreated)
	assert.Equal(t, 0, result.RepositoriesUpdated)
	assert.Equal(t, 3, result.CommitsInserted)
	assert.Equal(t, 0, result.CommitsSkipped)
	assert.Equal(t, 0, result.CommitsErrored)

	repo, err := s.Repositories().FindByName(ctx, "billing")
	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "/work/billing", repo.URL)
	require.NotNil(t, repo.LastExtractedAt)

	count, err := s.Commits().CountByRepo(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRunIdempotentReload(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	artifact := testArtifact()

	_, err := Run(ctx, s, artifact, 100)
	require.NoError(t, err)

	// Reload the same artifact plus one new commit.
	artifact.Commits = append(artifact.Commits, schema.ArtifactCommit{
		Hash: "ddd444", CommitDate: "2026-03-20T08:00:00Z", AuthorName: "Alice",
		AuthorEmail: "alice@example.com", Subject: "New work", Weight: 100,
	})

	result, err := Run(ctx, s, artifact, 100)
	require.NoError(t, err)

	assert.Equal(t, 0, result.RepositoriesCreated)
	assert.Equal(t, 1, result.RepositoriesUpdated)
	assert.Equal(t, 1, result.CommitsInserted)
	assert.Equal(t, 3, result.CommitsSkipped)
	assert.Equal(t, 0, result.CommitsErrored)

	repo, err := s.Repositories().FindByName(ctx, "billing")
	require.NoError(t, err)
	count, err := s.Commits().CountByRepo(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRunBadDateCountsAsError(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	artifact := testArtifact()
	artifact.Commits[1].CommitDate = "yesterday-ish"

	result, err := Run(ctx, s, artifact, 100)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CommitsInserted)
	assert.Equal(t, 1, result.CommitsErrored)
}

func TestReadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"repository": {"name": "billing", "path": "/work/billing"},
		"extractedAt": "2026-04-01T12:00:00Z",
		"window": {"start": "2026-03-01T00:00:00Z", "end": "2026-04-01T00:00:00Z"},
		"summary": {"commitCount": 1},
		"commits": [{"hash": "aaa", "commitDate": "2026-03-15T10:30:00Z", "subject": "one", "weight": 100}]
	}`), 0o644))

	artifact, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "billing", artifact.Repository.Name)
	require.Len(t, artifact.Commits, 1)
	assert.Equal(t, "aaa", artifact.Commits[0].Hash)
}

func TestReadArtifactRejectsMissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"repository": {"path": "/w"}}`), 0o644))

	_, err := ReadArtifact(path)
	assert.ErrorContains(t, err, "no repository name")
}

func TestParseCommitDate(t *testing.T) {
	got, err := parseCommitDate("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC), got)

	got, err = parseCommitDate("Mon Mar 16 11:22:33 2026 +0100")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	_, err = parseCommitDate("not a date")
	assert.Error(t, err)
}
