package categorize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/llm"
	"github.com/marcomd/metricmind/schema"
)

// fakeStore is an in-memory contract.Store for engine tests.
type fakeStore struct {
	commits    *fakeCommitStore
	categories *fakeCategoryStore
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		commits:    &fakeCommitStore{},
		categories: &fakeCategoryStore{usage: map[string]int{}},
	}
}

func (s *fakeStore) Repositories() contract.RepositoryStore          { return nil }
func (s *fakeStore) Commits() contract.CommitStore                   { return s.commits }
func (s *fakeStore) Categories() contract.CategoryStore              { return s.categories }
func (s *fakeStore) RefreshReportingViews(_ context.Context) error   { return nil }
func (s *fakeStore) Status(_ context.Context) (schema.StoreStatus, error) {
	return schema.StoreStatus{}, nil
}
func (s *fakeStore) Close() error { return nil }

type fakeCommitStore struct {
	rows    []schema.Commit
	updates map[int64]string
}

func (c *fakeCommitStore) Exists(_ context.Context, _ int64, _ string) (bool, error) {
	return false, nil
}
func (c *fakeCommitStore) Insert(_ context.Context, _ *schema.Commit) error { return nil }
func (c *fakeCommitStore) CountByRepo(_ context.Context, _ int64) (int, error) {
	return len(c.rows), nil
}

func (c *fakeCommitStore) ListUncategorized(_ context.Context, _ int64, limit int) ([]schema.Commit, error) {
	var out []schema.Commit
	for _, row := range c.rows {
		if row.Category == nil && len(out) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (c *fakeCommitStore) ListForAICategorization(_ context.Context, _ int64, limit int) ([]schema.Commit, error) {
	if len(c.rows) > limit {
		return c.rows[:limit], nil
	}
	return c.rows, nil
}

func (c *fakeCommitStore) ListForWeighing(_ context.Context, _ int64) ([]schema.Commit, error) {
	return c.rows, nil
}

func (c *fakeCommitStore) UpdateCategory(_ context.Context, id int64, category string, confidence *int) error {
	if c.updates == nil {
		c.updates = map[int64]string{}
	}
	c.updates[id] = category
	for i := range c.rows {
		if c.rows[i].ID == id {
			c.rows[i].Category = &category
			c.rows[i].AIConfidence = confidence
		}
	}
	return nil
}

func (c *fakeCommitStore) UpdateWeight(_ context.Context, _ int64, _ int) error { return nil }

type fakeCategoryStore struct {
	names []string
	usage map[string]int
}

func (c *fakeCategoryStore) ListNames(_ context.Context) ([]string, error) {
	return append([]string(nil), c.names...), nil
}

func (c *fakeCategoryStore) FindByName(_ context.Context, name string) (*schema.Category, error) {
	for i, n := range c.names {
		if n == name {
			return &schema.Category{ID: int64(i + 1), Name: n}, nil
		}
	}
	return nil, nil
}

func (c *fakeCategoryStore) Insert(_ context.Context, cat *schema.Category) error {
	c.names = append(c.names, cat.Name)
	cat.ID = int64(len(c.names))
	return nil
}

func (c *fakeCategoryStore) IncrementUsage(_ context.Context, name string) error {
	c.usage[name]++
	return nil
}

func (c *fakeCategoryStore) SeedFromCommits(_ context.Context) (int, error) { return 0, nil }

func newTestEngine(store contract.Store, provider llm.Provider, strict bool) *Engine {
	cfg := &contract.Config{
		StrictCategories: strict,
		Timeout:          time.Second,
		MaxRetries:       2,
	}
	engine := NewEngine(store, provider, cfg)
	engine.Progress = false
	engine.sleep = func(time.Duration) {}
	return engine
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestEngineRun(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.commits.rows = []schema.Commit{
		{ID: 1, Hash: "aaa", Subject: "Add invoice export"},
		{ID: 2, Hash: "bbb", Subject: "Tune invoice email copy", Category: strPtr("BILLING"), AIConfidence: intPtr(95)},
		{ID: 3, Hash: "ccc", Subject: "Refund edge case"},
	}

	provider := &llm.Mock{CompleteFunc: func(_ context.Context, _ string) (string, error) {
		return "CATEGORY: BILLING\nCONFIDENCE: 85\nREASON: invoice flow", nil
	}}

	engine := newTestEngine(store, provider, true)
	result, err := engine.Run(ctx, 0, 100)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Categorized)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Errored)

	// BILLING is minted once, then reused from the in-run vocabulary.
	assert.Equal(t, 1, result.CategoriesCreated)
	assert.Equal(t, []string{"BILLING"}, store.categories.names)
	assert.Equal(t, 2, store.categories.usage["BILLING"])

	assert.Equal(t, "BILLING", store.commits.updates[1])
	assert.Equal(t, "BILLING", store.commits.updates[3])
	_, touched := store.commits.updates[2]
	assert.False(t, touched)
}

func TestEngineRetryOnTimeout(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.commits.rows = []schema.Commit{{ID: 1, Hash: "aaa", Subject: "Add invoice export"}}

	calls := 0
	provider := &llm.Mock{CompleteFunc: func(_ context.Context, _ string) (string, error) {
		calls++
		if calls < 3 {
			return "", &llm.Error{Kind: llm.KindTimeout, Op: "mock"}
		}
		return "CATEGORY: BILLING\nCONFIDENCE: 80", nil
	}}

	var slept []time.Duration
	engine := newTestEngine(store, provider, false)
	engine.sleep = func(d time.Duration) { slept = append(slept, d) }

	result, err := engine.Run(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Categorized)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, slept)
}

func TestEngineRetriesExhausted(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.commits.rows = []schema.Commit{{ID: 1, Hash: "aaa", Subject: "Add invoice export"}}

	calls := 0
	provider := &llm.Mock{CompleteFunc: func(_ context.Context, _ string) (string, error) {
		calls++
		return "", &llm.Error{Kind: llm.KindTransport, Op: "mock"}
	}}

	engine := newTestEngine(store, provider, false)
	result, err := engine.Run(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errored)
	assert.Equal(t, 0, result.Categorized)
	assert.Equal(t, 3, calls) // maxRetries 2 means three attempts
}

func TestEngineRejectedCategoryNotRetried(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.commits.rows = []schema.Commit{{ID: 1, Hash: "aaa", Subject: "Release notes"}}

	calls := 0
	provider := &llm.Mock{CompleteFunc: func(_ context.Context, _ string) (string, error) {
		calls++
		return "CATEGORY: 2023\nCONFIDENCE: 99", nil
	}}

	engine := newTestEngine(store, provider, true)
	result, err := engine.Run(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Errored)
	assert.Equal(t, 1, calls)
	assert.Empty(t, store.categories.names)
}

func TestRunPattern(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.commits.rows = []schema.Commit{
		{ID: 1, Hash: "aaa", Subject: "BILLING | Add invoice export"},
		{ID: 2, Hash: "bbb", Subject: "fix bug in parser"},
		{ID: 3, Hash: "ccc", Subject: "[CS] Handle refunds"},
	}

	result, err := RunPattern(ctx, store, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Categorized)
	assert.Equal(t, 1, result.Skipped)

	assert.Equal(t, "BILLING", store.commits.updates[1])
	assert.Equal(t, "CS", store.commits.updates[3])

	// The pattern path never mints vocabulary entries.
	assert.Empty(t, store.categories.names)
}
