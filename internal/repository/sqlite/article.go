package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

// articleRepo is the ArticleRepository view of the database. The three
// repositories share one *DB; thin adapter types keep the CRUD method sets
// from colliding on a single receiver.
type articleRepo struct{ db *DB }

var _ repository.ArticleRepository = articleRepo{}

// Articles returns the article repository view of the database.
func (db *DB) Articles() repository.ArticleRepository {
	return articleRepo{db: db}
}

// Create inserts the article and its category associations in one
// transaction. ID and timestamps are filled in on the passed struct.
func (r articleRepo) Create(ctx context.Context, article *model.Article) error {
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	err := r.db.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO artigos (titulo, subtitulo, slug, conteudo, created_by, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			article.Title,
			article.Subtitle,
			article.Slug,
			article.Content,
			nullableID(article.CreatedBy),
			article.CreatedAt,
			article.UpdatedAt,
		)
		if err != nil {
			return uniqueViolation(err, "artigos.slug", article.Slug)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading inserted article id: %w", err)
		}
		article.ID = id

		return insertAssociations(ctx, tx, article.ID, article.CategoryIDs)
	})
	if err != nil {
		return fmt.Errorf("sqlite: creating article: %w", err)
	}
	return nil
}

// Update overwrites the row, recomputed slug included, and replaces the full
// association set: delete everything, insert the submitted set. This is a
// set replacement, not a diff.
func (r articleRepo) Update(ctx context.Context, article *model.Article) error {
	article.UpdatedAt = time.Now()

	err := r.db.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE artigos
			 SET titulo = ?, subtitulo = ?, slug = ?, conteudo = ?, updated_at = ?
			 WHERE id = ?`,
			article.Title,
			article.Subtitle,
			article.Slug,
			article.Content,
			article.UpdatedAt,
			article.ID,
		)
		if err != nil {
			return uniqueViolation(err, "artigos.slug", article.Slug)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("artigo", article.ID)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM artigo_categorias WHERE artigo_id = ?`, article.ID,
		); err != nil {
			return fmt.Errorf("clearing associations: %w", err)
		}

		return insertAssociations(ctx, tx, article.ID, article.CategoryIDs)
	})
	if err != nil {
		return fmt.Errorf("sqlite: updating article %d: %w", article.ID, err)
	}
	return nil
}

// Delete removes the article. The join rows go with it via the foreign key
// cascade, inside the same transaction.
func (r articleRepo) Delete(ctx context.Context, id int64) error {
	err := r.db.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM artigos WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("artigo", id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite: deleting article %d: %w", id, err)
	}
	return nil
}

// List returns one page of articles newest-first plus the total filtered
// count. COUNT(*) OVER() hands back the pre-LIMIT group count with the page
// itself, so a listing costs one round trip. Categories come back as a
// GROUP_CONCAT set, deduplicated by DISTINCT.
//
// SQLite's LIKE is case-insensitive for ASCII, matching the original
// ILIKE contract.
func (r articleRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Article, int, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT
			a.id, a.titulo, a.subtitulo, a.slug, a.conteudo,
			a.created_by, a.created_at, a.updated_at,
			COALESCE(GROUP_CONCAT(DISTINCT ac.categoria_id), '') AS categorias,
			COUNT(*) OVER() AS total_count
		 FROM artigos a
		 LEFT JOIN artigo_categorias ac ON a.id = ac.artigo_id
		 WHERE a.titulo LIKE ?
		 GROUP BY a.id
		 ORDER BY a.created_at DESC
		 LIMIT ? OFFSET ?`,
		opts.Pattern(),
		repository.PageSize,
		opts.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing articles: %w", err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0, repository.PageSize)
	total := 0

	for rows.Next() {
		var (
			a         model.Article
			createdBy sql.NullInt64
			catCSV    string
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Subtitle, &a.Slug, &a.Content,
			&createdBy, &a.CreatedAt, &a.UpdatedAt,
			&catCSV, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning article row: %w", err)
		}
		a.CreatedBy = createdBy.Int64
		a.CategoryIDs = parseIDSet(catCSV)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating articles: %w", err)
	}

	return articles, total, nil
}

// Recent returns the newest articles for the homepage teaser.
func (r articleRepo) Recent(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, titulo, subtitulo, slug, conteudo, created_at, updated_at
		 FROM artigos
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recent articles: %w", err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0, limit)
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Subtitle, &a.Slug, &a.Content,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recent article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recent articles: %w", err)
	}
	return articles, nil
}

// GetBySlug fetches one article with the author display name joined in,
// then aggregates the full category objects ordered by name for the chip
// row on the article page.
func (r articleRepo) GetBySlug(ctx context.Context, slugValue string) (*model.Article, error) {
	var (
		a         model.Article
		createdBy sql.NullInt64
	)
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT a.id, a.titulo, a.subtitulo, a.slug, a.conteudo,
			a.created_by, a.created_at, a.updated_at,
			COALESCE(u.nome, '') AS autor_nome
		 FROM artigos a
		 LEFT JOIN usuarios u ON a.created_by = u.id
		 WHERE a.slug = ?`,
		slugValue,
	).Scan(
		&a.ID, &a.Title, &a.Subtitle, &a.Slug, &a.Content,
		&createdBy, &a.CreatedAt, &a.UpdatedAt,
		&a.AuthorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("artigo", slugValue)
		}
		return nil, fmt.Errorf("sqlite: getting article %q: %w", slugValue, err)
	}
	a.CreatedBy = createdBy.Int64

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT c.id, c.nome
		 FROM categorias c
		 JOIN artigo_categorias ac ON c.id = ac.categoria_id
		 WHERE ac.artigo_id = ?
		 ORDER BY c.nome ASC`,
		a.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting article categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ref model.CategoryRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning article category: %w", err)
		}
		a.Categories = append(a.Categories, ref)
		a.CategoryIDs = append(a.CategoryIDs, ref.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating article categories: %w", err)
	}

	return &a, nil
}

// insertAssociations writes one join row per category ID. Callers pass a
// deduplicated set; the composite primary key rejects anything else.
func insertAssociations(ctx context.Context, tx *sql.Tx, articleID int64, categoryIDs []int64) error {
	for _, catID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artigo_categorias (artigo_id, categoria_id) VALUES (?, ?)`,
			articleID, catID,
		); err != nil {
			return fmt.Errorf("inserting association (categoria %d): %w", catID, err)
		}
	}
	return nil
}

// parseIDSet parses the GROUP_CONCAT output ("3,1,7") into int64s. The
// empty string from COALESCE means the article has no associations.
func parseIDSet(csv string) []int64 {
	if csv == "" {
		return []int64{}
	}
	parts := strings.Split(csv, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// nullableID maps the zero ID to NULL for optional foreign keys.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
