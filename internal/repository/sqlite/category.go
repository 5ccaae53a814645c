package sqlite

import (
	"context"
	"fmt"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

type categoryRepo struct{ db *DB }

var _ repository.CategoryRepository = categoryRepo{}

// Categories returns the category repository view of the database.
func (db *DB) Categories() repository.CategoryRepository {
	return categoryRepo{db: db}
}

func (r categoryRepo) Create(ctx context.Context, category *model.Category) error {
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO categorias (nome, descricao, slug) VALUES (?, ?, ?)`,
		category.Name,
		category.Description,
		category.Slug,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating category: %w",
			uniqueViolation(err, "categorias.slug", category.Slug))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted category id: %w", err)
	}
	category.ID = id
	return nil
}

func (r categoryRepo) Update(ctx context.Context, category *model.Category) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE categorias SET nome = ?, descricao = ?, slug = ? WHERE id = ?`,
		category.Name,
		category.Description,
		category.Slug,
		category.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating category %d: %w", category.ID,
			uniqueViolation(err, "categorias.slug", category.Slug))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("categoria", category.ID)
	}
	return nil
}

func (r categoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM categorias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("categoria", id)
	}
	return nil
}

// List matches the query against nome OR descricao, ordered by nome, with
// the filtered total from the same round trip.
func (r categoryRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Category, int, error) {
	pattern := opts.Pattern()
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, nome, descricao, slug, COUNT(*) OVER() AS total_count
		 FROM categorias
		 WHERE nome LIKE ? OR descricao LIKE ?
		 ORDER BY nome ASC
		 LIMIT ? OFFSET ?`,
		pattern,
		pattern,
		repository.PageSize,
		opts.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, repository.PageSize)
	total := 0

	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &total); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, total, nil
}

// ListAll returns every category ordered by nome, for the selection inputs
// in the article editor.
func (r categoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, nome, descricao, slug FROM categorias ORDER BY nome ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}
	return categories, nil
}
