// internal/store/store.go
//
// Store port and the sentinel errors shared by every adapter.

// Package store persists users and posts.
//
// Three implementations share the Store interface:
//   - memory:   maps guarded by an RWMutex; state is lost on restart.
//   - SQLite:   database/sql with go-sqlite3, migrations applied on open.
//   - Postgres: a pgx pool, migrations applied on open.
//
// Every implementation enforces that a post's author exists.
package store

import (
	"context"
	"errors"

	"github.com/robalobadob/medium-blog/internal/blog"
)

var (
	// ErrNotFound means no row matched the key.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a unique constraint (user email) was violated.
	ErrConflict = errors.New("conflict")

	// ErrForeignKey means a post referenced a user that does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

// Store is the datastore used by the HTTP handlers. Each method is a
// single round trip.
type Store interface {
	// CreateUser inserts a user and returns it with its assigned id.
	// Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, email string, name *string, passwordHash string) (blog.User, error)

	// FindUserByEmail returns ErrNotFound if no user has email.
	FindUserByEmail(ctx context.Context, email string) (blog.User, error)

	// CreatePost inserts a post and returns it with its assigned id.
	// Returns ErrForeignKey if authorID does not exist.
	CreatePost(ctx context.Context, title, content string, authorID int64) (blog.Post, error)

	// UpdatePost sets title and content of post id.
	// Returns ErrNotFound if no post has that id.
	UpdatePost(ctx context.Context, id int64, title, content string) (blog.Post, error)

	// ListPosts returns every post with its author's name, in no
	// particular order. An empty store yields an empty, non-nil slice.
	ListPosts(ctx context.Context) ([]blog.PostView, error)

	// FindPost returns the post with id, or nil if there is none.
	FindPost(ctx context.Context, id int64) (*blog.PostView, error)

	Close() error
}
