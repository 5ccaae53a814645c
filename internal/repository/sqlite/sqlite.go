// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite, a pure Go translation of SQLite — no CGo,
// no C compiler, works everywhere Go works. ":memory:" gives tests a fresh
// throwaway database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/domussolis/domus/internal/apperror"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns it and closes it on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the database, applies the pragmas the server depends on, and
// runs migrations.
//
// WAL mode lets reads proceed while a write transaction is open, which
// matters once the public pages and the admin area hit the same file.
// Foreign keys are off by default in SQLite; the artigo_categorias cascade
// rules need them on.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection so a bad path fails here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// and safe to run on every startup.
//
// The table and column names keep the original Portuguese schema: usuarios,
// categorias, artigos and the artigo_categorias join table. Slugs carry a
// UNIQUE constraint so the by-slug lookup is unambiguous; the service layer
// surfaces a violation as a field-level validation failure.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS usuarios (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL UNIQUE,
			senha      TEXT NOT NULL,
			nome       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS categorias (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			nome      TEXT NOT NULL,
			descricao TEXT NOT NULL,
			slug      TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS artigos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			titulo     TEXT NOT NULL,
			subtitulo  TEXT NOT NULL DEFAULT '',
			slug       TEXT NOT NULL UNIQUE,
			conteudo   TEXT NOT NULL,
			created_by INTEGER REFERENCES usuarios(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_artigos_created_at ON artigos(created_at);

		CREATE TABLE IF NOT EXISTS artigo_categorias (
			artigo_id    INTEGER NOT NULL REFERENCES artigos(id) ON DELETE CASCADE,
			categoria_id INTEGER NOT NULL REFERENCES categorias(id) ON DELETE CASCADE,
			PRIMARY KEY (artigo_id, categoria_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// execTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Every multi-statement write goes through here so
// the connection is released on all exit paths.
func (db *DB) execTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("sqlite: rollback failed (%v) after: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// uniqueViolation translates SQLite UNIQUE constraint errors on the given
// column into apperror.Conflict, leaving other errors untouched.
func uniqueViolation(err error, column string, key any) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed: "+column) {
		return apperror.Conflict(column, key)
	}
	return err
}
