// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage is the only implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/domussolis/domus/internal/model"
)

// PageSize is the fixed page size shared by every listing operation and by
// the pagination controls in the admin UI. Total page count is
// ceil(totalCount / PageSize) on the caller's side.
const PageSize = 20

// ListOptions is the shared pagination/search contract. Page is 1-indexed
// externally; values below 1 are treated as page 1. Query is matched as a
// case-insensitive substring; when empty, every row matches.
type ListOptions struct {
	Page  int
	Query string
}

// Offset converts the 1-indexed page to a row offset.
func (o ListOptions) Offset() int {
	page := o.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// Pattern returns the SQL LIKE pattern for Query. An empty query becomes the
// wildcard pattern so unfiltered listings share the same statement.
func (o ListOptions) Pattern() string {
	return "%" + o.Query + "%"
}

// ArticleRepository persists articles and their category associations.
// Mutations that touch the join table run inside a single transaction, so a
// failed write never leaves a row with half of its associations.
type ArticleRepository interface {
	// Create inserts the article and one join row per category ID, filling
	// in ID, Slug-derived fields and timestamps on the passed struct.
	Create(ctx context.Context, article *model.Article) error
	// Update overwrites the row and replaces the full association set
	// (delete-all-then-insert, no diffing).
	Update(ctx context.Context, article *model.Article) error
	// Delete removes the article; join rows go with it in the same
	// transaction.
	Delete(ctx context.Context, id int64) error
	// List returns one page ordered by creation time descending, with the
	// total filtered count from the same round trip.
	List(ctx context.Context, opts ListOptions) ([]model.Article, int, error)
	// Recent returns the newest articles for the homepage teaser.
	Recent(ctx context.Context, limit int) ([]model.Article, error)
	// GetBySlug joins the author name and aggregates the full category
	// objects. Returns apperror.NotFound when no row matches.
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
	// List matches Query against nome OR descricao, ordered by nome.
	List(ctx context.Context, opts ListOptions) ([]model.Category, int, error)
	// ListAll returns every category ordered by nome, for selection inputs.
	ListAll(ctx context.Context) ([]model.Category, error)
}

// UserRepository persists editorial accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List matches Query against nome OR email, ordered by nome.
	List(ctx context.Context, opts ListOptions) ([]model.User, int, error)
}
