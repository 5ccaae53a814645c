package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domussolis/domus/internal/handler"
	"github.com/domussolis/domus/internal/repository/sqlite"
	"github.com/domussolis/domus/internal/service"
	"github.com/domussolis/domus/internal/viewcache"
)

// writeTestTemplates lays down a minimal template set so page tests assert
// on data flow rather than markup.
func writeTestTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	templates := map[string]string{
		"base.html":     `{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`,
		"home.html":     `{{define "content"}}home:{{len .Articles}}{{end}}`,
		"artigos.html":  `{{define "content"}}page {{.Page}} of {{.TotalPages}}{{range .Articles}}[{{.Title}}]{{end}}{{end}}`,
		"artigo.html":   `{{define "content"}}<h1>{{.Article.Title}}</h1><div>{{.Content}}</div>{{end}}`,
		"admin.html":    `{{define "content"}}admin{{end}}`,
		"notfound.html": `{{define "content"}}notfound{{end}}`,
	}
	for name, body := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func newPageTestEnv(t *testing.T) (*chi.Mux, *service.ArticleService, *service.CategoryService) {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	pages := viewcache.New()
	articleSvc := service.NewArticleService(db.Articles(), pages, logger)
	categorySvc := service.NewCategoryService(db.Categories(), pages, logger)

	pageHandler, err := handler.NewPageHandler(writeTestTemplates(t), articleSvc, categorySvc, logger)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/", pageHandler.HandleHome)
	router.Get("/artigos", pageHandler.HandleArticles)
	router.Get("/artigos/{slug}", pageHandler.HandleArticle)
	router.NotFound(pageHandler.HandleNotFound)

	return router, articleSvc, categorySvc
}

func seedArticle(t *testing.T, articles *service.ArticleService, categories *service.CategoryService, title, content string) string {
	t.Helper()
	cat := categories.Create(context.Background(), service.CategoryInput{Name: "Geral " + title, Description: "desc"})
	require.True(t, cat.Success, cat.Message)

	res := articles.Create(context.Background(), 0, service.ArticleInput{
		Title:      title,
		Content:    content,
		Categories: strconv.FormatInt(cat.Value.ID, 10),
	})
	require.True(t, res.Success, res.Message)
	return res.Value.Slug
}

func TestHandleHome(t *testing.T) {
	router, articles, categories := newPageTestEnv(t)
	seedArticle(t, articles, categories, "Primeiro Artigo", "<p>conteúdo suficiente</p>")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "home:1")
}

func TestHandleArticles_Listing(t *testing.T) {
	router, articles, categories := newPageTestEnv(t)
	seedArticle(t, articles, categories, "O Eclipse", "<p>conteúdo suficiente</p>")
	seedArticle(t, articles, categories, "As Marés", "<p>conteúdo suficiente</p>")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/artigos", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "page 1 of 1")
	assert.Contains(t, rr.Body.String(), "[O Eclipse]")
	assert.Contains(t, rr.Body.String(), "[As Marés]")

	t.Run("title filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/artigos?q=eclipse", nil))

		assert.Contains(t, rr.Body.String(), "[O Eclipse]")
		assert.NotContains(t, rr.Body.String(), "[As Marés]")
	})
}

func TestHandleArticle_SanitizesAtRender(t *testing.T) {
	router, articles, categories := newPageTestEnv(t)
	slug := seedArticle(t, articles, categories, "Artigo Perigoso",
		`<p class="ql-align-center">seguro</p><script>alert("xss")</script>`)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/artigos/"+slug, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Artigo Perigoso")
	assert.Contains(t, body, `class="ql-align-center"`)
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "alert")
}

func TestHandleArticle_NotFound(t *testing.T) {
	router, _, _ := newPageTestEnv(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/artigos/nao-existe", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "notfound")
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	router, _, _ := newPageTestEnv(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/qualquer/coisa", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "notfound")
}
