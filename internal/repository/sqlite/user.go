package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/domussolis/domus/internal/apperror"
	"github.com/domussolis/domus/internal/model"
	"github.com/domussolis/domus/internal/repository"
)

type userRepo struct{ db *DB }

var _ repository.UserRepository = userRepo{}

// Users returns the user repository view of the database.
func (db *DB) Users() repository.UserRepository {
	return userRepo{db: db}
}

func (r userRepo) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO usuarios (email, senha, nome, created_at) VALUES (?, ?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w",
			uniqueViolation(err, "usuarios.email", user.Email))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, senha, nome, created_at FROM usuarios WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("usuario", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return &u, nil
}

// GetByEmail is the login lookup. The caller compares the bcrypt hash; this
// method never inspects the senha column beyond scanning it.
func (r userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, email, senha, nome, created_at FROM usuarios WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("usuario", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return &u, nil
}

// List matches the query against nome OR email for the admin users table.
func (r userRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	pattern := opts.Pattern()
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, email, nome, created_at, COUNT(*) OVER() AS total_count
		 FROM usuarios
		 WHERE nome LIKE ? OR email LIKE ?
		 ORDER BY nome ASC
		 LIMIT ? OFFSET ?`,
		pattern,
		pattern,
		repository.PageSize,
		opts.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, repository.PageSize)
	total := 0

	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, total, nil
}
