// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded sqlite migrations (idempotent, recorded in _migrations).
//   - Users/posts queries; constraint errors mapped to ErrConflict / ErrForeignKey.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/medium-blog/assets"
	"github.com/robalobadob/medium-blog/internal/blog"
)

// SQLite is a Store backed by a SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at dsn and
// applies pending migrations. dsn is a file path, optionally prefixed
// with "sqlite://".
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")

	// Ensure directory exists for ./data/app.db, etc.
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	// _foreign_keys applies to every pooled connection, not just the first.
	db, err := sql.Open("sqlite3", path+sep+"_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// migrateSQLite applies the embedded sqlite migrations in lexical order,
// each inside its own transaction, skipping those already recorded.
func migrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations("sqlite")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

func (s *SQLite) CreateUser(ctx context.Context, email string, name *string, passwordHash string) (blog.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password) VALUES (?, ?, ?)`, email, name, passwordHash)
	if err != nil {
		return blog.User{}, fmt.Errorf("create user: %w", sqliteErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return blog.User{}, err
	}
	return blog.User{ID: id, Email: email, Name: name, PasswordHash: passwordHash}, nil
}

func (s *SQLite) FindUserByEmail(ctx context.Context, email string) (blog.User, error) {
	var (
		u    blog.User
		name sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password FROM users WHERE email=?`, email,
	).Scan(&u.ID, &u.Email, &name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.User{}, ErrNotFound
	}
	if err != nil {
		return blog.User{}, err
	}
	u.Name = nullString(name)
	return u, nil
}

func (s *SQLite) CreatePost(ctx context.Context, title, content string, authorID int64) (blog.Post, error) {
	var p blog.Post
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, author_id) VALUES (?, ?, ?)
		 RETURNING id, title, content, author_id`, title, content, authorID,
	).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID)
	if err != nil {
		return blog.Post{}, fmt.Errorf("create post: %w", sqliteErr(err))
	}
	return p, nil
}

func (s *SQLite) UpdatePost(ctx context.Context, id int64, title, content string) (blog.Post, error) {
	var p blog.Post
	err := s.db.QueryRowContext(ctx,
		`UPDATE posts SET title=?, content=? WHERE id=?
		 RETURNING id, title, content, author_id`, title, content, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, fmt.Errorf("update post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return blog.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLite) ListPosts(ctx context.Context) ([]blog.PostView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, u.name
		FROM posts p JOIN users u ON u.id = p.author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []blog.PostView{}
	for rows.Next() {
		var (
			v    blog.PostView
			name sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Content, &name); err != nil {
			return nil, err
		}
		v.Author.Name = nullString(name)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLite) FindPost(ctx context.Context, id int64) (*blog.PostView, error) {
	var (
		v    blog.PostView
		name sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.content, u.name
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id=? LIMIT 1`, id,
	).Scan(&v.ID, &v.Title, &v.Content, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.Author.Name = nullString(name)
	return &v, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// sqliteErr maps constraint failures onto the package sentinels.
func sqliteErr(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		}
	}
	return err
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
