package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marcomd/metricmind/core/categorize"
	"github.com/marcomd/metricmind/schema"
)

type categoryStore struct {
	*SQLStore
}

func (c *categoryStore) ListNames(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list category names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (c *categoryStore) FindByName(ctx context.Context, name string) (*schema.Category, error) {
	query := c.bind(`
		SELECT id, name, description, usage_count
		FROM categories WHERE name = ?
	`)

	var cat schema.Category
	err := c.db.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.UsageCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %q: %w", name, err)
	}
	return &cat, nil
}

func (c *categoryStore) Insert(ctx context.Context, cat *schema.Category) error {
	query := `
		INSERT INTO categories (name, description, usage_count)
		VALUES (?, ?, ?)
	`

	id, err := c.insertReturningID(ctx, query, cat.Name, cat.Description, cat.UsageCount)
	if err != nil {
		return fmt.Errorf("failed to insert category %q: %w", cat.Name, err)
	}
	cat.ID = id
	return nil
}

func (c *categoryStore) IncrementUsage(ctx context.Context, name string) error {
	query := c.bind(`UPDATE categories SET usage_count = usage_count + 1 WHERE name = ?`)
	if _, err := c.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("failed to increment category usage: %w", err)
	}
	return nil
}

// SeedFromCommits bootstraps the vocabulary from categories already
// present on commit rows, so prior imports survive a fresh database.
func (c *categoryStore) SeedFromCommits(ctx context.Context) (int, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM commits
		WHERE category IS NOT NULL
		GROUP BY category
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to collect commit categories: %w", err)
	}
	defer rows.Close()

	type seed struct {
		name  string
		count int
	}
	var seeds []seed
	for rows.Next() {
		var s seed
		if err := rows.Scan(&s.name, &s.count); err != nil {
			return 0, fmt.Errorf("failed to scan commit category: %w", err)
		}
		seeds = append(seeds, s)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	validator := categorize.Validator{PreventNumeric: true}
	added := 0
	for _, s := range seeds {
		if !validator.IsValid(s.name) {
			continue
		}
		existing, err := c.FindByName(ctx, s.name)
		if err != nil {
			return added, err
		}
		if existing != nil {
			continue
		}
		cat := schema.Category{Name: s.name, UsageCount: s.count}
		if err := c.Insert(ctx, &cat); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
