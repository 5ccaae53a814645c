package sqlite

import (
	"context"
	"testing"

	"github.com/domussolis/domus/internal/model"
)

// newTestDB opens a fresh in-memory database with the schema applied. Each
// test gets its own; t.Cleanup closes it even when subtests fail.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestCategory(t *testing.T, db *DB, name, slug string) *model.Category {
	t.Helper()
	cat := &model.Category{Name: name, Description: "sobre " + name, Slug: slug}
	if err := db.Categories().Create(context.Background(), cat); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return cat
}

func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "$2a$10$fakehashfortests"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestArticle(t *testing.T, db *DB, title, slug string, categoryIDs ...int64) *model.Article {
	t.Helper()
	article := &model.Article{
		Title:       title,
		Subtitle:    "subtítulo de " + title,
		Slug:        slug,
		Content:     "<p>conteúdo de " + title + "</p>",
		CategoryIDs: categoryIDs,
	}
	if err := db.Articles().Create(context.Background(), article); err != nil {
		t.Fatalf("failed to create test article: %v", err)
	}
	return article
}
