package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marcomd/metricmind/schema"
)

type repositoryStore struct {
	*SQLStore
}

// insertReturningID runs an INSERT and yields the generated row ID,
// papering over the lack of LastInsertId support in the pgx driver.
func (s *SQLStore) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	if s.backend == schema.PostgreSQLBackend {
		var id int64
		err := s.db.QueryRowContext(ctx, s.bind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *repositoryStore) FindByName(ctx context.Context, name string) (*schema.Repository, error) {
	query := r.bind(`
		SELECT id, name, url, description, last_extracted_at
		FROM repositories WHERE name = ?
	`)

	var repo schema.Repository
	var lastExtracted sql.NullTime
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&repo.ID, &repo.Name, &repo.URL, &repo.Description, &lastExtracted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find repository %q: %w", name, err)
	}
	if lastExtracted.Valid {
		repo.LastExtractedAt = &lastExtracted.Time
	}
	return &repo, nil
}

func (r *repositoryStore) Insert(ctx context.Context, repo *schema.Repository) error {
	query := `
		INSERT INTO repositories (name, url, description, last_extracted_at)
		VALUES (?, ?, ?, ?)
	`

	var lastExtracted any
	if repo.LastExtractedAt != nil {
		lastExtracted = *repo.LastExtractedAt
	}

	id, err := r.insertReturningID(ctx, query, repo.Name, repo.URL, repo.Description, lastExtracted)
	if err != nil {
		return fmt.Errorf("failed to insert repository %q: %w", repo.Name, err)
	}
	repo.ID = id
	return nil
}

func (r *repositoryStore) TouchLastExtracted(ctx context.Context, id int64, at time.Time) error {
	query := r.bind(`UPDATE repositories SET last_extracted_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update repository extraction timestamp: %w", err)
	}
	return nil
}

func (r *repositoryStore) Delete(ctx context.Context, id int64) error {
	query := r.bind(`DELETE FROM repositories WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete repository: %w", err)
	}
	return nil
}
