package categorize

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/llm"
	"github.com/marcomd/metricmind/schema"
	"github.com/schollz/progressbar/v3"
)

// Engine runs AI categorization over bounded-size batches of commits.
// One concrete retry/prompt engine serves every provider.
type Engine struct {
	store      contract.Store
	provider   llm.Provider
	validator  Validator
	timeout    time.Duration
	maxRetries int

	// sleep is swappable so tests do not wait out real backoff.
	sleep func(time.Duration)

	// Progress disables the terminal progress bar when false.
	Progress bool
}

// NewEngine wires a categorization engine over a store and a provider.
func NewEngine(store contract.Store, provider llm.Provider, cfg *contract.Config) *Engine {
	return &Engine{
		store:      store,
		provider:   provider,
		validator:  Validator{PreventNumeric: cfg.StrictCategories},
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		sleep:      time.Sleep,
		Progress:   true,
	}
}

// Run categorizes up to limit commits, scoped to one repository when repoID
// is positive. Per-commit failures are counted and never abort the batch.
func (e *Engine) Run(ctx context.Context, repoID int64, limit int) (*schema.CategorizeResult, error) {
	result := &schema.CategorizeResult{}

	vocabulary, err := e.store.Categories().ListNames(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load category vocabulary: %w", err)
	}

	commits, err := e.store.Commits().ListForAICategorization(ctx, repoID, limit)
	if err != nil {
		return result, fmt.Errorf("failed to list commits for categorization: %w", err)
	}

	bar := e.newProgressBar(len(commits))
	for i := range commits {
		e.categorizeOne(ctx, &commits[i], &vocabulary, result)
		result.Processed++
		_ = bar.Add(1)
	}

	return result, nil
}

func (e *Engine) newProgressBar(total int) *progressbar.ProgressBar {
	if !e.Progress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Categorizing commits"),
		progressbar.OptionSetWriter(os.Stderr),
	)
}

// categorizeOne executes the per-commit state machine: skip check, prompt,
// bounded invocation with retry, parse, validation, vocabulary update,
// commit update.
func (e *Engine) categorizeOne(ctx context.Context, commit *schema.Commit, vocabulary *[]string, result *schema.CategorizeResult) {
	if commit.Category != nil && commit.AIConfidence != nil && *commit.AIConfidence >= schema.SettledConfidence {
		result.Skipped++
		return
	}

	prompt := BuildPrompt(commit, *vocabulary, nil)

	text, err := e.invokeWithRetry(ctx, prompt)
	if err != nil {
		result.Errored++
		contract.LogWarn(fmt.Sprintf("commit %s: %v", commit.Hash, err))
		return
	}

	reply, err := ParseReply(text)
	if err != nil {
		result.Errored++
		contract.LogWarn(fmt.Sprintf("commit %s: unparseable reply: %v", commit.Hash, err))
		return
	}

	// A semantically wrong answer is terminal; retrying would not change it.
	if reason := e.validator.Reject(reply.Category); reason != "" {
		result.Errored++
		contract.LogWarn(fmt.Sprintf("commit %s: rejected category %q: %s", commit.Hash, reply.Category, reason))
		return
	}

	if err := e.adoptCategory(ctx, reply, vocabulary, result); err != nil {
		result.Errored++
		contract.LogWarn(fmt.Sprintf("commit %s: %v", commit.Hash, err))
		return
	}

	confidence := reply.Confidence
	if err := e.store.Commits().UpdateCategory(ctx, commit.ID, reply.Category, &confidence); err != nil {
		result.Errored++
		contract.LogWarn(fmt.Sprintf("commit %s: failed to store category: %v", commit.Hash, err))
		return
	}
	if err := e.store.Categories().IncrementUsage(ctx, reply.Category); err != nil {
		contract.LogWarn(fmt.Sprintf("commit %s: failed to increment usage for %q: %v", commit.Hash, reply.Category, err))
	}
	result.Categorized++
}

// invokeWithRetry issues one time-bounded provider call per attempt.
// Timeouts and transport failures back off 2ⁿ seconds before attempt n+1;
// other failures are terminal immediately.
func (e *Engine) invokeWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxRetries+1; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		text, err := e.provider.Complete(callCtx, prompt)
		cancel()
		if err == nil {
			return text, nil
		}

		kind := llm.KindOf(err)
		if !llm.Retryable(kind) {
			return "", err
		}
		lastErr = err
		if attempt <= e.maxRetries {
			e.sleep(time.Duration(math.Pow(2, float64(attempt))) * time.Second)
		}
	}
	return "", fmt.Errorf("exhausted %d attempts: %w", e.maxRetries+1, lastErr)
}

// adoptCategory inserts a newly minted category into the approved vocabulary
// before any commit is assigned to it, and extends the in-memory snapshot so
// later commits in the same run see it as a candidate.
func (e *Engine) adoptCategory(ctx context.Context, reply *AIReply, vocabulary *[]string, result *schema.CategorizeResult) error {
	for _, name := range *vocabulary {
		if strings.EqualFold(name, reply.Category) {
			return nil
		}
	}

	existing, err := e.store.Categories().FindByName(ctx, reply.Category)
	if err != nil {
		return fmt.Errorf("failed vocabulary lookup for %q: %w", reply.Category, err)
	}
	if existing == nil {
		category := &schema.Category{Name: reply.Category, Description: reply.Reason}
		if err := e.store.Categories().Insert(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %q: %w", reply.Category, err)
		}
		result.CategoriesCreated++
	}

	*vocabulary = append(*vocabulary, reply.Category)
	return nil
}

// RunPattern applies the deterministic pattern categorizer to uncategorized
// commits. The pattern path never touches the vocabulary table and never
// overwrites an existing category.
func RunPattern(ctx context.Context, store contract.Store, repoID int64, limit int) (*schema.CategorizeResult, error) {
	result := &schema.CategorizeResult{}

	commits, err := store.Commits().ListUncategorized(ctx, repoID, limit)
	if err != nil {
		return result, fmt.Errorf("failed to list uncategorized commits: %w", err)
	}

	for _, commit := range commits {
		result.Processed++
		category, ok := FromSubject(commit.Subject)
		if !ok {
			result.Skipped++
			continue
		}
		if err := store.Commits().UpdateCategory(ctx, commit.ID, category, nil); err != nil {
			result.Errored++
			contract.LogWarn(fmt.Sprintf("commit %s: failed to store category: %v", commit.Hash, err))
			continue
		}
		result.Categorized++
	}

	return result, nil
}
