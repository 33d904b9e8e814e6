// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for tests and local development when durability is not required.
//
// Characteristics:
//   - Users and posts kept in maps keyed by id; ids assigned sequentially from 1.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Email uniqueness and post author existence checked like the SQL schemas do.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/robalobadob/medium-blog/internal/blog"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu         sync.RWMutex
	users      map[int64]blog.User
	posts      map[int64]blog.Post
	nextUserID int64
	nextPostID int64
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		users:      make(map[int64]blog.User),
		posts:      make(map[int64]blog.Post),
		nextUserID: 1,
		nextPostID: 1,
	}
}

func (m *memory) CreateUser(ctx context.Context, email string, name *string, passwordHash string) (blog.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return blog.User{}, fmt.Errorf("create user %q: %w", email, ErrConflict)
		}
	}
	u := blog.User{ID: m.nextUserID, Email: email, Name: cloneString(name), PasswordHash: passwordHash}
	m.users[u.ID] = u
	m.nextUserID++
	return u, nil
}

func (m *memory) FindUserByEmail(ctx context.Context, email string) (blog.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return blog.User{}, ErrNotFound
}

func (m *memory) CreatePost(ctx context.Context, title, content string, authorID int64) (blog.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[authorID]; !ok {
		return blog.Post{}, fmt.Errorf("create post for author %d: %w", authorID, ErrForeignKey)
	}
	p := blog.Post{ID: m.nextPostID, Title: title, Content: content, AuthorID: authorID}
	m.posts[p.ID] = p
	m.nextPostID++
	return p, nil
}

func (m *memory) UpdatePost(ctx context.Context, id int64, title, content string) (blog.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return blog.Post{}, fmt.Errorf("update post %d: %w", id, ErrNotFound)
	}
	p.Title = title
	p.Content = content
	m.posts[id] = p
	return p, nil
}

func (m *memory) ListPosts(ctx context.Context) ([]blog.PostView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]blog.PostView, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, m.view(p))
	}
	return out, nil
}

func (m *memory) FindPost(ctx context.Context, id int64) (*blog.PostView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	v := m.view(p)
	return &v, nil
}

func (m *memory) Close() error { return nil }

// view joins p with its author. Caller holds m.mu.
func (m *memory) view(p blog.Post) blog.PostView {
	return blog.PostView{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Author:  blog.Author{Name: cloneString(m.users[p.AuthorID].Name)},
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
