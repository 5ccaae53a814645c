package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

const (
	MinCategoryNameLength        = 3
	MinCategoryDescriptionLength = 3
)

const (
	msgCategoryCreated  = "Categoria criada com sucesso!"
	msgCategoryUpdated  = "Categoria atualizada com sucesso!"
	msgCategoryDeleted  = "Categoria deletada com sucesso."
	msgCategoryDB       = "Erro de banco de dados."
	msgCategoryDeleteDB = "Falha ao deletar a categoria."
	msgCategoryBadID    = "ID da categoria é inválido."
	msgCategoryMissing  = "Categoria não encontrada."
	msgCategorySlugDup  = "Já existe uma categoria com este nome."
)

// CategoryInput is the category form field bag.
type CategoryInput struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

// CategoryService handles category business logic.
type CategoryService struct {
	repo   repository.CategoryRepository
	reval  Revalidator
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, reval Revalidator, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		reval:  reval,
		logger: logger,
	}
}

// Create validates and inserts a category; the slug is derived from the
// name on every write, same as the article slug follows the title.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) Result[*model.Category] {
	fields, errs := validateCategory(in)
	if len(errs) > 0 {
		return Invalid[*model.Category](msgValidation, errs)
	}

	category := &model.Category{
		Name:        fields.name,
		Description: fields.description,
		Slug:        slug.Make(fields.name),
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			errs := FieldErrors{}
			errs.Add("nome", msgCategorySlugDup)
			return Invalid[*model.Category](msgValidation, errs)
		}
		s.logger.Error("failed to create category",
			slog.String("nome", fields.name),
			slog.String("error", err.Error()),
		)
		return Fail[*model.Category](msgCategoryDB)
	}

	s.reval.Invalidate(PathAdminCategories)
	s.logger.Info("category created",
		slog.Int64("id", category.ID),
		slog.String("slug", category.Slug),
	)

	return OK(category, msgCategoryCreated)
}

func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) Result[*model.Category] {
	if id <= 0 {
		return Fail[*model.Category](msgCategoryBadID)
	}

	fields, errs := validateCategory(in)
	if len(errs) > 0 {
		return Invalid[*model.Category](msgValidation, errs)
	}

	category := &model.Category{
		ID:          id,
		Name:        fields.name,
		Description: fields.description,
		Slug:        slug.Make(fields.name),
	}

	if err := s.repo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return Fail[*model.Category](msgCategoryMissing)
		case errors.Is(err, apperror.ErrConflict):
			errs := FieldErrors{}
			errs.Add("nome", msgCategorySlugDup)
			return Invalid[*model.Category](msgValidation, errs)
		}
		s.logger.Error("failed to update category",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return Fail[*model.Category](msgCategoryDB)
	}

	s.reval.Invalidate(PathAdminCategories)
	s.logger.Info("category updated", slog.Int64("id", id))

	return OK(category, msgCategoryUpdated)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) Result[int64] {
	if id <= 0 {
		return Fail[int64](msgCategoryBadID)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Fail[int64](msgCategoryMissing)
		}
		s.logger.Error("failed to delete category",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return Fail[int64](msgCategoryDeleteDB)
	}

	s.reval.Invalidate(PathAdminCategories)
	s.logger.Info("category deleted", slog.Int64("id", id))

	return OK(id, msgCategoryDeleted)
}

// ListPage returns one page of categories matching nome OR descricao.
// Degrades to an empty page on storage error, like the article listing.
func (s *CategoryService) ListPage(ctx context.Context, page int, query string) ([]model.Category, int) {
	categories, total, err := s.repo.List(ctx, repository.ListOptions{Page: page, Query: query})
	if err != nil {
		s.logger.Error("failed to list categories",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		return []model.Category{}, 0
	}
	return categories, total
}

// ListAll returns every category for the article editor's multi-select.
func (s *CategoryService) ListAll(ctx context.Context) []model.Category {
	categories, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all categories", slog.String("error", err.Error()))
		return []model.Category{}
	}
	return categories
}

type categoryFields struct {
	name        string
	description string
}

func validateCategory(in CategoryInput) (categoryFields, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < MinCategoryNameLength {
		errs.Add("nome", "O nome deve ter pelo menos 3 caracteres.")
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) < MinCategoryDescriptionLength {
		errs.Add("descricao", "A descrição deve ter pelo menos 3 caracteres.")
	}

	if len(errs) > 0 {
		return categoryFields{}, errs
	}
	return categoryFields{name: name, description: description}, nil
}
