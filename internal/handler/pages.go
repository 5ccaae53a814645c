// Package handler contains the HTTP handlers for the site. Handlers parse
// requests, call the service layer, and write responses; business rules
// live in the services.
package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/content"
	"github.com/domussolis/domus/internal/repository"
	"github.com/domussolis/domus/internal/service"
)

// PageHandler renders the server-side HTML pages. Templates are parsed once
// at startup; each page template is combined with base.html so it can fill
// the base layout's content block.
type PageHandler struct {
	templates  map[string]*template.Template
	articles   *service.ArticleService
	categories *service.CategoryService
	logger     *slog.Logger
}

// pageTemplates are the content templates, each paired with base.html.
var pageTemplates = []string{"home", "artigos", "artigo", "admin", "notfound"}

// NewPageHandler parses the page templates from templateDir.
func NewPageHandler(
	templateDir string,
	articles *service.ArticleService,
	categories *service.CategoryService,
	logger *slog.Logger,
) (*PageHandler, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name+".html"),
		)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}

	return &PageHandler{
		templates:  templates,
		articles:   articles,
		categories: categories,
		logger:     logger,
	}, nil
}

// HandleHome serves the landing page with the most recent articles.
//
// HTTP: GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":      "Domus Solis",
		"Articles":   h.articles.Recent(r.Context()),
		"Categories": h.categories.ListAll(r.Context()),
	}
	h.render(w, "home", http.StatusOK, data)
}

// HandleArticles serves the paginated article listing, optionally filtered
// by a title search.
//
// HTTP: GET /artigos?page=1&q=eclipse
func (h *PageHandler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	page, query := pageQuery(r)
	articles, total := h.articles.ListPage(r.Context(), page, query)
	totalPages := (total + repository.PageSize - 1) / repository.PageSize

	data := map[string]interface{}{
		"Title":      "Artigos — Domus Solis",
		"Articles":   articles,
		"Query":      query,
		"Page":       page,
		"TotalPages": totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
	}
	h.render(w, "artigos", http.StatusOK, data)
}

// HandleArticle serves a single article page. The stored rich-text body is
// sanitized here, at render time, before it is marked as trusted HTML.
//
// HTTP: GET /artigos/{slug}
func (h *PageHandler) HandleArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.renderNotFound(w)
			return
		}
		h.logger.Error("article page failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Title":   article.Title + " — Domus Solis",
		"Article": article,
		"Content": template.HTML(content.Sanitize(article.Content)),
	}
	h.render(w, "artigo", http.StatusOK, data)
}

// HandleAdmin serves the admin shell. The session middleware has already
// redirected anonymous visitors before this runs.
//
// HTTP: GET /admin
func (h *PageHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":      "Administração — Domus Solis",
		"Categories": h.categories.ListAll(r.Context()),
	}
	h.render(w, "admin", http.StatusOK, data)
}

// HandleNotFound is the catch-all for unknown paths.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w)
}

func (h *PageHandler) renderNotFound(w http.ResponseWriter) {
	h.render(w, "notfound", http.StatusNotFound, map[string]interface{}{
		"Title": "Página não encontrada — Domus Solis",
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, status int, data map[string]interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates[name].ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}
