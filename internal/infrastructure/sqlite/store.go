package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// Store persists saved recipes in a single sqlite file. Ingredients and ratio
// are kept as JSON columns and returned exactly as written.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps pragmas and writes consistent
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS saved_recipes (
  id          TEXT PRIMARY KEY,
  title       TEXT NOT NULL,
  url         TEXT NOT NULL DEFAULT '',
  ingredients TEXT NOT NULL,
  ratio       TEXT,
  created_at  INTEGER NOT NULL,
  updated_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saved_recipes_created_at ON saved_recipes(created_at DESC);
`)
	return err
}

// Save inserts a recipe, assigning a new id when it has none, or replaces the
// stored recipe with the same id. ID and timestamps are written back to recipe.
func (s *Store) Save(ctx context.Context, recipe *domain.SavedRecipe) error {
	if recipe == nil {
		return fmt.Errorf("%w: nil recipe", domain.ErrInvalidRequest)
	}

	ingredients, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	var ratio sql.NullString
	if recipe.Ratio != nil {
		b, err := json.Marshal(recipe.Ratio)
		if err != nil {
			return fmt.Errorf("encode ratio: %w", err)
		}
		ratio = sql.NullString{String: string(b), Valid: true}
	}

	now := s.now().UTC()

	if recipe.ID != "" {
		res, err := s.db.ExecContext(ctx, `
UPDATE saved_recipes
SET title=?, url=?, ingredients=?, ratio=?, updated_at=?
WHERE id=?
`, recipe.Title, recipe.URL, string(ingredients), ratio, now.UnixMilli(), recipe.ID)
		if err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			var createdAt int64
			if err := s.db.QueryRowContext(ctx, `SELECT created_at FROM saved_recipes WHERE id=?`, recipe.ID).Scan(&createdAt); err != nil {
				return fmt.Errorf("read recipe: %w", err)
			}
			recipe.CreatedAt = time.UnixMilli(createdAt).UTC()
			recipe.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()
			return nil
		}
	} else {
		recipe.ID = uuid.NewString()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO saved_recipes(id, title, url, ingredients, ratio, created_at, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, recipe.ID, recipe.Title, recipe.URL, string(ingredients), ratio, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}

	recipe.CreatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	recipe.UpdatedAt = recipe.CreatedAt
	return nil
}

// Get returns the recipe with id, or domain.ErrRecipeNotFound
func (s *Store) Get(ctx context.Context, id string) (*domain.SavedRecipe, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, url, ingredients, ratio, created_at, updated_at
FROM saved_recipes
WHERE id=?
`, id)

	recipe, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// List returns up to limit recipes, newest first
func (s *Store) List(ctx context.Context, limit int) ([]domain.SavedRecipe, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, url, ingredients, ratio, created_at, updated_at
FROM saved_recipes
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SavedRecipe, 0, limit)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *recipe)
	}
	return out, rows.Err()
}

// Delete removes the recipe with id, or returns domain.ErrRecipeNotFound
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_recipes WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if n == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

// Count returns the number of saved recipes
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM saved_recipes`)
	var n int
	return n, row.Scan(&n)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row scanner) (*domain.SavedRecipe, error) {
	var (
		r           domain.SavedRecipe
		ingredients string
		ratio       sql.NullString
		cAt, uAt    int64
	)
	if err := row.Scan(&r.ID, &r.Title, &r.URL, &ingredients, &ratio, &cAt, &uAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients for %s: %w", r.ID, err)
	}
	if ratio.Valid && ratio.String != "" && ratio.String != "null" {
		r.Ratio = &domain.RatioResult{}
		if err := json.Unmarshal([]byte(ratio.String), r.Ratio); err != nil {
			return nil, fmt.Errorf("decode ratio for %s: %w", r.ID, err)
		}
	}
	r.CreatedAt = time.UnixMilli(cAt).UTC()
	r.UpdatedAt = time.UnixMilli(uAt).UTC()
	return &r, nil
}
