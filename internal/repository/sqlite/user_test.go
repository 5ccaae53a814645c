package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "Maria Clara", "maria@domussolis.com.br")
	if user.ID == 0 {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Maria", "maria@domussolis.com.br")

	dup := &model.User{Name: "Outra Maria", Email: "maria@domussolis.com.br", PasswordHash: "$2a$10$x"}
	err := db.Users().Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() with duplicate email: error = %v, want ErrConflict", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "João", "joao@domussolis.com.br")

	got, err := db.Users().GetByEmail(context.Background(), "joao@domussolis.com.br")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %d, want %d", got.ID, created.ID)
	}
	// The hash must come back so login can verify the password.
	if got.PasswordHash == "" {
		t.Error("GetByEmail() did not return the password hash")
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Users().GetByEmail(context.Background(), "ninguem@domussolis.com.br")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "Ana", "ana@domussolis.com.br")

	got, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Ana" {
		t.Errorf("Name = %q, want Ana", got.Name)
	}

	if _, err := db.Users().GetByID(context.Background(), 9999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUserList_SearchesNameAndEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Maria Clara", "maria@domussolis.com.br")
	createTestUser(t, db, "João Pedro", "jp@outrodominio.com")

	users, total, err := db.Users().List(context.Background(), repository.ListOptions{Page: 1, Query: "maria"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Name != "Maria Clara" {
		t.Errorf("List(nome match) = %v, total %d", users, total)
	}

	users, total, err = db.Users().List(context.Background(), repository.ListOptions{Page: 1, Query: "outrodominio"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Name != "João Pedro" {
		t.Errorf("List(email match) = %v, total %d", users, total)
	}

	// Listing never loads password hashes.
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Errorf("List() returned a password hash for %s", u.Email)
		}
	}
}
