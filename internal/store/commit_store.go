package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/schema"
)

type commitStore struct {
	*SQLStore
}

func (c *commitStore) Exists(ctx context.Context, repoID int64, hash string) (bool, error) {
	query := c.bind(`SELECT 1 FROM commits WHERE repository_id = ? AND hash = ?`)

	var one int
	err := c.db.QueryRowContext(ctx, query, repoID, hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check commit existence: %w", err)
	}
	return true, nil
}

func (c *commitStore) Insert(ctx context.Context, commit *schema.Commit) error {
	query := `
		INSERT INTO commits (
			repository_id, hash, author_name, author_email, subject, body,
			lines_added, lines_deleted, files_changed, commit_date, weight,
			ai_tools, category, ai_confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	id, err := c.insertReturningID(ctx, query,
		commit.RepositoryID, commit.Hash, commit.AuthorName, commit.AuthorEmail,
		commit.Subject, commit.Body, commit.LinesAdded, commit.LinesDeleted,
		commit.FilesChanged, commit.CommitDate, commit.Weight,
		nullableString(commit.AITools), nullableString(commit.Category),
		nullableInt(commit.AIConfidence),
	)
	if err != nil {
		if isUniqueViolation(err, c.backend) {
			return contract.ErrDuplicateCommit
		}
		return fmt.Errorf("failed to insert commit %s: %w", commit.Hash, err)
	}
	commit.ID = id
	return nil
}

func (c *commitStore) CountByRepo(ctx context.Context, repoID int64) (int, error) {
	query := c.bind(`SELECT COUNT(*) FROM commits WHERE repository_id = ?`)

	var count int
	if err := c.db.QueryRowContext(ctx, query, repoID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commits: %w", err)
	}
	return count, nil
}

func (c *commitStore) ListUncategorized(ctx context.Context, repoID int64, limit int) ([]schema.Commit, error) {
	query := `
		SELECT id, repository_id, hash, author_name, author_email, subject, body,
			lines_added, lines_deleted, files_changed, commit_date, weight,
			ai_tools, category, ai_confidence
		FROM commits
		WHERE category IS NULL
	`
	args := []any{}
	if repoID > 0 {
		query += ` AND repository_id = ?`
		args = append(args, repoID)
	}
	query += `
		ORDER BY commit_date ASC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, c.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized commits: %w", err)
	}
	defer rows.Close()
	return scanCommits(rows)
}

func (c *commitStore) ListForAICategorization(ctx context.Context, repoID int64, limit int) ([]schema.Commit, error) {
	query := `
		SELECT id, repository_id, hash, author_name, author_email, subject, body,
			lines_added, lines_deleted, files_changed, commit_date, weight,
			ai_tools, category, ai_confidence
		FROM commits
		WHERE (category IS NULL OR ai_confidence IS NULL OR ai_confidence < ?)
	`
	args := []any{schema.SettledConfidence}
	if repoID > 0 {
		query += ` AND repository_id = ?`
		args = append(args, repoID)
	}
	query += `
		ORDER BY commit_date ASC
		LIMIT ?
	`
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, c.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for AI categorization: %w", err)
	}
	defer rows.Close()
	return scanCommits(rows)
}

func (c *commitStore) ListForWeighing(ctx context.Context, repoID int64) ([]schema.Commit, error) {
	query := `
		SELECT id, repository_id, subject, weight
		FROM commits
	`
	args := []any{}
	if repoID > 0 {
		query += ` WHERE repository_id = ?`
		args = append(args, repoID)
	}
	query += ` ORDER BY commit_date ASC`

	rows, err := c.db.QueryContext(ctx, c.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for weighing: %w", err)
	}
	defer rows.Close()

	var commits []schema.Commit
	for rows.Next() {
		var commit schema.Commit
		if err := rows.Scan(&commit.ID, &commit.RepositoryID, &commit.Subject, &commit.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan commit row: %w", err)
		}
		commits = append(commits, commit)
	}
	return commits, rows.Err()
}

func (c *commitStore) UpdateCategory(ctx context.Context, id int64, category string, confidence *int) error {
	query := c.bind(`UPDATE commits SET category = ?, ai_confidence = ? WHERE id = ?`)
	if _, err := c.db.ExecContext(ctx, query, category, nullableInt(confidence), id); err != nil {
		return fmt.Errorf("failed to update commit category: %w", err)
	}
	return nil
}

func (c *commitStore) UpdateWeight(ctx context.Context, id int64, weight int) error {
	query := c.bind(`UPDATE commits SET weight = ? WHERE id = ?`)
	if _, err := c.db.ExecContext(ctx, query, weight, id); err != nil {
		return fmt.Errorf("failed to update commit weight: %w", err)
	}
	return nil
}

func scanCommits(rows *sql.Rows) ([]schema.Commit, error) {
	var commits []schema.Commit
	for rows.Next() {
		var commit schema.Commit
		var aiTools, category sql.NullString
		var aiConfidence sql.NullInt64
		err := rows.Scan(
			&commit.ID, &commit.RepositoryID, &commit.Hash,
			&commit.AuthorName, &commit.AuthorEmail, &commit.Subject, &commit.Body,
			&commit.LinesAdded, &commit.LinesDeleted, &commit.FilesChanged,
			&commit.CommitDate, &commit.Weight, &aiTools, &category, &aiConfidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commit row: %w", err)
		}
		if aiTools.Valid {
			commit.AITools = &aiTools.String
		}
		if category.Valid {
			commit.Category = &category.String
		}
		if aiConfidence.Valid {
			confidence := int(aiConfidence.Int64)
			commit.AIConfidence = &confidence
		}
		commits = append(commits, commit)
	}
	return commits, rows.Err()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
