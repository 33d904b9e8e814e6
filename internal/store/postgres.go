// internal/store/postgres.go
//
// Postgres implementation of the Store interface on a pgx pool.
//
// Characteristics:
//   - Migrations from assets/migrations/postgres applied on open, one
//     transaction each, recorded in _migrations.
//   - Unique and foreign key violations mapped to ErrConflict / ErrForeignKey.
//   - Safe for concurrent use; the pool owns all connections.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/medium-blog/assets"
	"github.com/robalobadob/medium-blog/internal/blog"
)

// Postgres error codes mapped onto package sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and applies pending migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgres(pool), nil
}

// NewPostgres wraps an existing pool. Migrations are not applied; the pool
// is closed by Close.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations("postgres")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, m := range migrations {
		var done int
		err := pool.QueryRow(ctx, `SELECT 1 FROM _migrations WHERE name=$1`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO _migrations(name) VALUES ($1)`, m.Name); err != nil {
				return fmt.Errorf("record %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

func (s *Postgres) CreateUser(ctx context.Context, email string, name *string, passwordHash string) (blog.User, error) {
	u := blog.User{Email: email, Name: name, PasswordHash: passwordHash}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password) VALUES ($1, $2, $3) RETURNING id`,
		email, name, passwordHash,
	).Scan(&u.ID)
	if err != nil {
		return blog.User{}, fmt.Errorf("create user: %w", pgErr(err))
	}
	return u, nil
}

func (s *Postgres) FindUserByEmail(ctx context.Context, email string) (blog.User, error) {
	var u blog.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, name, password FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return blog.User{}, ErrNotFound
	}
	if err != nil {
		return blog.User{}, err
	}
	return u, nil
}

func (s *Postgres) CreatePost(ctx context.Context, title, content string, authorID int64) (blog.Post, error) {
	var p blog.Post
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (title, content, author_id) VALUES ($1, $2, $3)
		RETURNING id, title, content, author_id`,
		title, content, authorID,
	).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID)
	if err != nil {
		return blog.Post{}, fmt.Errorf("create post: %w", pgErr(err))
	}
	return p, nil
}

func (s *Postgres) UpdatePost(ctx context.Context, id int64, title, content string) (blog.Post, error) {
	var p blog.Post
	err := s.pool.QueryRow(ctx, `
		UPDATE posts SET title = $2, content = $3
		WHERE id = $1
		RETURNING id, title, content, author_id`,
		id, title, content,
	).Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return blog.Post{}, fmt.Errorf("update post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return blog.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return p, nil
}

func (s *Postgres) ListPosts(ctx context.Context) ([]blog.PostView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.title, p.content, u.name
		FROM posts p JOIN users u ON u.id = p.author_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []blog.PostView{}
	for rows.Next() {
		var v blog.PostView
		if err := rows.Scan(&v.ID, &v.Title, &v.Content, &v.Author.Name); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Postgres) FindPost(ctx context.Context, id int64) (*blog.PostView, error) {
	var v blog.PostView
	err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.title, p.content, u.name
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1 LIMIT 1`, id,
	).Scan(&v.ID, &v.Title, &v.Content, &v.Author.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func pgErr(err error) error {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pe.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pe.ConstraintName)
		}
	}
	return err
}
