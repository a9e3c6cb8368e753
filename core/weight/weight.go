// Package weight computes revert-aware validity weights for stored commits.
package weight

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

// changeRequestToken matches GitLab-style !<digits> and GitHub-style
// <hash><digits> references. Surrounding parentheses are not part of the
// token, so "(!123)" and "!123" extract identically.
var changeRequestToken = regexp.MustCompile(`[!#]\d+`)

// IsRevert reports whether a subject marks a revert commit. Unreverts are
// excluded even though they contain "revert" as a substring.
func IsRevert(subject string) bool {
	lower := strings.ToLower(subject)
	return strings.Contains(lower, "revert") && !strings.Contains(lower, "unrevert")
}

// IsUnrevert reports whether a subject marks an unrevert commit. Unreverts
// are never weight-modified: the algorithm only zeroes, never restores.
func IsUnrevert(subject string) bool {
	return strings.Contains(strings.ToLower(subject), "unrevert")
}

// ExtractIdentifiers returns the change-request identifiers referenced by a
// subject, deduplicated by textual identifier, in order of appearance.
func ExtractIdentifiers(subject string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range changeRequestToken.FindAllString(subject, -1) {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Run executes one single-pass weight calculation, scoped to one repository
// when repoID is positive. In dry-run mode no storage mutation occurs but
// every counter is still computed, so a preview reports exactly what a live
// run would do.
func Run(ctx context.Context, store contract.Store, repoID int64, dryRun bool) (*schema.WeightResult, error) {
	result := &schema.WeightResult{DryRun: dryRun}

	commits, err := store.Commits().ListForWeighing(ctx, repoID)
	if err != nil {
		return result, fmt.Errorf("failed to list commits for weighing: %w", err)
	}
	result.CommitsScanned = len(commits)

	// Reverts only match originals within their own repository.
	byRepo := make(map[int64][]*schema.Commit)
	for i := range commits {
		c := &commits[i]
		byRepo[c.RepositoryID] = append(byRepo[c.RepositoryID], c)
	}

	for _, repoCommits := range byRepo {
		if err := zeroRepoReverts(ctx, store, repoCommits, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func zeroRepoReverts(ctx context.Context, store contract.Store, commits []*schema.Commit, result *schema.WeightResult) error {
	for _, commit := range commits {
		if !IsRevert(commit.Subject) {
			continue
		}
		result.RevertsFound++

		if err := zeroCommit(ctx, store, commit, result); err != nil {
			return err
		}

		// Without an identifier the revert itself is still zeroed,
		// but no original can be matched.
		ids := ExtractIdentifiers(commit.Subject)
		if len(ids) == 0 {
			continue
		}
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}

		for _, other := range commits {
			if other.ID == commit.ID || IsUnrevert(other.Subject) {
				continue
			}
			if !referencesAny(other.Subject, wanted) {
				continue
			}
			if err := zeroCommit(ctx, store, other, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// referencesAny reports whether a subject carries one of the wanted
// identifiers. Identifiers are compared textually, so !123 never matches a
// subject that only mentions !1234.
func referencesAny(subject string, wanted map[string]bool) bool {
	for _, id := range changeRequestToken.FindAllString(subject, -1) {
		if wanted[id] {
			return true
		}
	}
	return false
}

// zeroCommit zeroes one commit unless it already is at zero, keeping
// repeated runs idempotent. A per-commit update failure is counted by the
// caller's enclosing unit of work.
func zeroCommit(ctx context.Context, store contract.Store, commit *schema.Commit, result *schema.WeightResult) error {
	if commit.Weight == schema.ZeroWeight {
		return nil
	}
	if !result.DryRun {
		if err := store.Commits().UpdateWeight(ctx, commit.ID, schema.ZeroWeight); err != nil {
			return fmt.Errorf("failed to zero commit %s: %w", commit.Hash, err)
		}
	}
	commit.Weight = schema.ZeroWeight
	result.CommitsZeroed++
	return nil
}
