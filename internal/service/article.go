package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

// Validation thresholds, matching the original form schemas.
const (
	MinTitleLength   = 3
	MinContentLength = 10

	// RecentLimit is the homepage teaser size.
	RecentLimit = 6
)

// User-facing messages. The admin frontend is in Portuguese; raw storage
// errors never replace these.
const (
	msgValidation      = "Erro de validação."
	msgArticleCreated  = "Artigo criado com sucesso!"
	msgArticleUpdated  = "Artigo atualizado com sucesso!"
	msgArticleDeleted  = "Artigo deletado com sucesso."
	msgArticleCreateDB = "Erro de banco de dados: Não foi possível criar o artigo."
	msgArticleUpdateDB = "Erro de banco de dados: Não foi possível atualizar o artigo."
	msgArticleDeleteDB = "Falha ao deletar o artigo."
	msgArticleBadID    = "ID do artigo é inválido."
	msgArticleMissing  = "Artigo não encontrado."
	msgSlugTaken       = "Já existe um artigo com este título."
)

// ArticleInput is the flat field bag an article form submits. Categorias is
// the comma-joined category ID list exactly as the multi-select posts it;
// validation parses it into a deduplicated set.
type ArticleInput struct {
	Title      string `json:"titulo"`
	Subtitle   string `json:"subtitulo"`
	Content    string `json:"conteudo"`
	Categories string `json:"categorias"`
}

// ArticleService handles article business logic.
type ArticleService struct {
	repo   repository.ArticleRepository
	reval  Revalidator
	logger *slog.Logger
}

func NewArticleService(repo repository.ArticleRepository, reval Revalidator, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		repo:   repo,
		reval:  reval,
		logger: logger,
	}
}

// Create validates the form input and, only if it passes, writes the
// article and its associations in one transaction. The slug is derived from
// the title here and on every update, so editing a title moves the
// canonical URL — no alias is kept for the old slug.
func (s *ArticleService) Create(ctx context.Context, createdBy int64, in ArticleInput) Result[*model.Article] {
	fields, errs := validateArticle(in)
	if len(errs) > 0 {
		return Invalid[*model.Article](msgValidation, errs)
	}

	article := &model.Article{
		Title:       fields.title,
		Subtitle:    fields.subtitle,
		Slug:        slug.Make(fields.title),
		Content:     fields.content,
		CreatedBy:   createdBy,
		CategoryIDs: fields.categories,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			errs := FieldErrors{}
			errs.Add("titulo", msgSlugTaken)
			return Invalid[*model.Article](msgValidation, errs)
		}
		s.logger.Error("failed to create article",
			slog.String("titulo", fields.title),
			slog.String("error", err.Error()),
		)
		return Fail[*model.Article](msgArticleCreateDB)
	}

	s.reval.Invalidate(PathAdminArticles)
	s.logger.Info("article created",
		slog.Int64("id", article.ID),
		slog.String("slug", article.Slug),
	)

	return OK(article, msgArticleCreated)
}

// Update overwrites the article and replaces its full category association
// set. Same validation and slug recomputation as Create.
func (s *ArticleService) Update(ctx context.Context, id int64, in ArticleInput) Result[*model.Article] {
	if id <= 0 {
		return Fail[*model.Article](msgArticleBadID)
	}

	fields, errs := validateArticle(in)
	if len(errs) > 0 {
		return Invalid[*model.Article](msgValidation, errs)
	}

	article := &model.Article{
		ID:          id,
		Title:       fields.title,
		Subtitle:    fields.subtitle,
		Slug:        slug.Make(fields.title),
		Content:     fields.content,
		CategoryIDs: fields.categories,
	}

	if err := s.repo.Update(ctx, article); err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			return Fail[*model.Article](msgArticleMissing)
		case errors.Is(err, apperror.ErrConflict):
			errs := FieldErrors{}
			errs.Add("titulo", msgSlugTaken)
			return Invalid[*model.Article](msgValidation, errs)
		}
		s.logger.Error("failed to update article",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return Fail[*model.Article](msgArticleUpdateDB)
	}

	s.reval.Invalidate(PathAdminArticles)
	s.logger.Info("article updated",
		slog.Int64("id", id),
		slog.String("slug", article.Slug),
	)

	return OK(article, msgArticleUpdated)
}

// Delete removes the article by ID. An invalid ID short-circuits before any
// query. Association rows are removed by the same transaction's cascade.
func (s *ArticleService) Delete(ctx context.Context, id int64) Result[int64] {
	if id <= 0 {
		return Fail[int64](msgArticleBadID)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Fail[int64](msgArticleMissing)
		}
		s.logger.Error("failed to delete article",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return Fail[int64](msgArticleDeleteDB)
	}

	s.reval.Invalidate(PathAdminArticles)
	s.logger.Info("article deleted", slog.Int64("id", id))

	return OK(id, msgArticleDeleted)
}

// ListPage returns one page of articles plus the filtered total. Listing is
// a degraded read path: on storage error it logs and returns an empty page
// with zero count, never an error — the public listing renders empty rather
// than failing.
func (s *ArticleService) ListPage(ctx context.Context, page int, query string) ([]model.Article, int) {
	articles, total, err := s.repo.List(ctx, repository.ListOptions{Page: page, Query: query})
	if err != nil {
		s.logger.Error("failed to list articles",
			slog.Int("page", page),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return []model.Article{}, 0
	}
	return articles, total
}

// Recent returns the homepage teaser articles, degrading to empty on error.
func (s *ArticleService) Recent(ctx context.Context) []model.Article {
	articles, err := s.repo.Recent(ctx, RecentLimit)
	if err != nil {
		s.logger.Error("failed to list recent articles", slog.String("error", err.Error()))
		return []model.Article{}
	}
	return articles
}

// GetBySlug fetches one article for the public page. Unlike the listing
// paths this propagates: apperror.NotFound for a missing row (the caller
// renders 404) and a wrapped error for storage failures.
func (s *ArticleService) GetBySlug(ctx context.Context, slugValue string) (*model.Article, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, apperror.NotFound("artigo", slugValue)
	}
	return s.repo.GetBySlug(ctx, slugValue)
}

// articleFields is the validated, typed form of an ArticleInput.
type articleFields struct {
	title      string
	subtitle   string
	content    string
	categories []int64
}

func validateArticle(in ArticleInput) (articleFields, FieldErrors) {
	errs := FieldErrors{}

	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < MinTitleLength {
		errs.Add("titulo", "O título deve ter pelo menos 3 caracteres.")
	}
	if utf8.RuneCountInString(in.Content) < MinContentLength {
		errs.Add("conteudo", "O conteúdo deve ter pelo menos 10 caracteres.")
	}

	categories, ok := parseCategorySet(in.Categories)
	if !ok || len(categories) == 0 {
		errs.Add("categorias", "Pelo menos uma categoria deve ser selecionada.")
	}

	if len(errs) > 0 {
		return articleFields{}, errs
	}

	return articleFields{
		title:      title,
		subtitle:   strings.TrimSpace(in.Subtitle),
		content:    in.Content,
		categories: categories,
	}, nil
}

// parseCategorySet parses the comma-joined ID list into a deduplicated set,
// preserving first-seen order. Empty tokens are skipped ("1,,2" is fine);
// a non-numeric token rejects the whole field.
func parseCategorySet(csv string) ([]int64, bool) {
	seen := make(map[int64]bool)
	var ids []int64

	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, false
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids, true
}
