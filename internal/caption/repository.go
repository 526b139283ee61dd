// Package caption manages per-file caption rows keyed by storage path.
package caption

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the interface for caption persistence.
type Store interface {
	// SelectByPaths returns the captions for the given paths, keyed by path.
	// Paths without a row are simply absent from the result. An empty input
	// returns an empty map without touching the database.
	SelectByPaths(ctx context.Context, paths []string) (map[string]string, error)
	// Upsert inserts or overwrites the caption for path. Last write wins.
	Upsert(ctx context.Context, path, text string) error
	// DeleteByPath removes the caption row for path, if any.
	DeleteByPath(ctx context.Context, path string) error
}

// Repository implements Store against PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SelectByPaths fetches captions for all given paths in one query.
func (r *Repository) SelectByPaths(ctx context.Context, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	if len(paths) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT path, caption FROM captions WHERE path = ANY($1)`,
		paths,
	)
	if err != nil {
		return nil, fmt.Errorf("select captions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, text string
		if err := rows.Scan(&path, &text); err != nil {
			return nil, fmt.Errorf("scan caption row: %w", err)
		}
		out[path] = text
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read caption rows: %w", err)
	}
	return out, nil
}

// Upsert writes the caption for path, overwriting any prior value.
func (r *Repository) Upsert(ctx context.Context, path, text string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO captions (path, caption)
		 VALUES ($1, $2)
		 ON CONFLICT (path) DO UPDATE SET caption = EXCLUDED.caption, updated_at = now()`,
		path, text,
	)
	if err != nil {
		return fmt.Errorf("upsert caption for %q: %w", path, err)
	}
	return nil
}

// DeleteByPath removes the caption row for path. Deleting a missing row is not an error.
func (r *Repository) DeleteByPath(ctx context.Context, path string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM captions WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("delete caption for %q: %w", path, err)
	}
	return nil
}
