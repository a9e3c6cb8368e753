package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := Open(schema.SQLiteBackend, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertTestRepo(t *testing.T, s *SQLStore, name string) *schema.Repository {
	t.Helper()
	repo := &schema.Repository{Name: name, URL: "/work/" + name}
	require.NoError(t, s.Repositories().Insert(context.Background(), repo))
	require.NotZero(t, repo.ID)
	return repo
}

func testCommit(repoID int64, hash, subject string, at time.Time) *schema.Commit {
	return &schema.Commit{
		RepositoryID: repoID,
		Hash:         hash,
		AuthorName:   "Alice",
		AuthorEmail:  "alice@example.com",
		Subject:      subject,
		CommitDate:   at,
		Weight:       schema.DefaultWeight,
	}
}

func TestRepositoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	missing, err := s.Repositories().FindByName(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	repo := insertTestRepo(t, s, "billing")

	found, err := s.Repositories().FindByName(ctx, "billing")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, repo.ID, found.ID)
	assert.Nil(t, found.LastExtractedAt)

	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Repositories().TouchLastExtracted(ctx, repo.ID, at))

	found, err = s.Repositories().FindByName(ctx, "billing")
	require.NoError(t, err)
	require.NotNil(t, found.LastExtractedAt)
	assert.Equal(t, at.Unix(), found.LastExtractedAt.Unix())
}

func TestCommitStoreInsertAndDuplicate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := insertTestRepo(t, s, "billing")

	commit := testCommit(repo.ID, "aaa111", "Add export", time.Now().UTC())
	require.NoError(t, s.Commits().Insert(ctx, commit))
	assert.NotZero(t, commit.ID)

	exists, err := s.Commits().Exists(ctx, repo.ID, "aaa111")
	require.NoError(t, err)
	assert.True(t, exists)

	// Same (repository, hash) pair maps to the duplicate sentinel.
	dup := testCommit(repo.ID, "aaa111", "Add export again", time.Now().UTC())
	err = s.Commits().Insert(ctx, dup)
	assert.ErrorIs(t, err, contract.ErrDuplicateCommit)

	// Same hash in another repository is fine.
	other := insertTestRepo(t, s, "checkout")
	require.NoError(t, s.Commits().Insert(ctx, testCommit(other.ID, "aaa111", "Other repo", time.Now().UTC())))
}

func TestCommitStoreDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := insertTestRepo(t, s, "billing")
	require.NoError(t, s.Commits().Insert(ctx, testCommit(repo.ID, "aaa111", "one", time.Now().UTC())))
	require.NoError(t, s.Commits().Insert(ctx, testCommit(repo.ID, "bbb222", "two", time.Now().UTC())))

	require.NoError(t, s.Repositories().Delete(ctx, repo.ID))

	count, err := s.Commits().CountByRepo(ctx, repo.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommitStoreCategorySelection(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := insertTestRepo(t, s, "billing")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := testCommit(repo.ID, "aaa111", "oldest", base)
	newer := testCommit(repo.ID, "bbb222", "newer", base.Add(24*time.Hour))
	settled := testCommit(repo.ID, "ccc333", "settled", base.Add(48*time.Hour))
	require.NoError(t, s.Commits().Insert(ctx, older))
	require.NoError(t, s.Commits().Insert(ctx, newer))
	require.NoError(t, s.Commits().Insert(ctx, settled))

	confidence := 95
	require.NoError(t, s.Commits().UpdateCategory(ctx, settled.ID, "BILLING", &confidence))

	uncategorized, err := s.Commits().ListUncategorized(ctx, repo.ID, 100)
	require.NoError(t, err)
	require.Len(t, uncategorized, 2)
	assert.Equal(t, "aaa111", uncategorized[0].Hash) // oldest first
	assert.Equal(t, "bbb222", uncategorized[1].Hash)

	// Settled commits are excluded, low-confidence ones are not.
	low := 40
	require.NoError(t, s.Commits().UpdateCategory(ctx, newer.ID, "CS", &low))

	forAI, err := s.Commits().ListForAICategorization(ctx, repo.ID, 100)
	require.NoError(t, err)
	require.Len(t, forAI, 2)
	assert.Equal(t, "aaa111", forAI[0].Hash)
	assert.Equal(t, "bbb222", forAI[1].Hash)
	require.NotNil(t, forAI[1].Category)
	assert.Equal(t, "CS", *forAI[1].Category)
}

func TestCommitStoreCategorySelectionAllRepos(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	billing := insertTestRepo(t, s, "billing")
	checkout := insertTestRepo(t, s, "checkout")

	require.NoError(t, s.Commits().Insert(ctx, testCommit(billing.ID, "aaa111", "one", time.Now().UTC())))
	require.NoError(t, s.Commits().Insert(ctx, testCommit(checkout.ID, "bbb222", "two", time.Now().UTC())))

	// repoID 0 spans every repository, as with weighing.
	uncategorized, err := s.Commits().ListUncategorized(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, uncategorized, 2)

	forAI, err := s.Commits().ListForAICategorization(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, forAI, 2)

	scoped, err := s.Commits().ListUncategorized(ctx, checkout.ID, 100)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, checkout.ID, scoped[0].RepositoryID)
}

func TestCommitStoreListForWeighing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	billing := insertTestRepo(t, s, "billing")
	checkout := insertTestRepo(t, s, "checkout")

	require.NoError(t, s.Commits().Insert(ctx, testCommit(billing.ID, "aaa111", "one", time.Now().UTC())))
	require.NoError(t, s.Commits().Insert(ctx, testCommit(checkout.ID, "bbb222", "two", time.Now().UTC())))

	all, err := s.Commits().ListForWeighing(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := s.Commits().ListForWeighing(ctx, billing.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, billing.ID, scoped[0].RepositoryID)

	require.NoError(t, s.Commits().UpdateWeight(ctx, scoped[0].ID, schema.ZeroWeight))
	scoped, err = s.Commits().ListForWeighing(ctx, billing.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.ZeroWeight, scoped[0].Weight)
}

func TestCategoryStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	names, err := s.Categories().ListNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	cat := &schema.Category{Name: "BILLING", Description: "invoices and payments"}
	require.NoError(t, s.Categories().Insert(ctx, cat))
	require.NoError(t, s.Categories().Insert(ctx, &schema.Category{Name: "CS"}))

	names, err = s.Categories().ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BILLING", "CS"}, names)

	require.NoError(t, s.Categories().IncrementUsage(ctx, "BILLING"))
	require.NoError(t, s.Categories().IncrementUsage(ctx, "BILLING"))

	found, err := s.Categories().FindByName(ctx, "BILLING")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.UsageCount)
}

func TestCategoryStoreSeedFromCommits(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := insertTestRepo(t, s, "billing")

	subjects := map[string]string{
		"aaa111": "BILLING", // valid, repeated below
		"bbb222": "BILLING",
		"ccc333": "CS",
		"ddd444": "2023", // numeric, filtered out
	}
	i := 0
	for hash, category := range subjects {
		commit := testCommit(repo.ID, hash, "subject", time.Now().UTC().Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Commits().Insert(ctx, commit))
		require.NoError(t, s.Commits().UpdateCategory(ctx, commit.ID, category, nil))
		i++
	}
	// One uncategorized commit must not break seeding.
	require.NoError(t, s.Commits().Insert(ctx, testCommit(repo.ID, "eee555", "uncategorized", time.Now().UTC())))

	added, err := s.Categories().SeedFromCommits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	names, err := s.Categories().ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BILLING", "CS"}, names)

	// Re-seeding adds nothing.
	added, err = s.Categories().SeedFromCommits(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestStoreStatus(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	repo := insertTestRepo(t, s, "billing")
	require.NoError(t, s.Commits().Insert(ctx, testCommit(repo.ID, "aaa111", "one", time.Now().UTC())))
	require.NoError(t, s.Categories().Insert(ctx, &schema.Category{Name: "BILLING"}))

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.Equal(t, 1, status.Repositories)
	assert.Equal(t, 1, status.Commits)
	assert.Equal(t, 1, status.Categories)
}

func TestBind(t *testing.T) {
	s := &SQLStore{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "SELECT $1, $2", s.bind("SELECT ?, ?"))

	s.backend = schema.SQLiteBackend
	assert.Equal(t, "SELECT ?, ?", s.bind("SELECT ?, ?"))
}
