// internal/httpserver/routes_blog.go
//
// HTTP routes for blog posts, mounted under /api/v1/blog behind requireAuth:
//   - POST /       → create a post authored by the caller
//   - PUT  /       → update title/content of any post by id
//   - GET  /bulk   → every post with its author's name
//   - GET  /{id}   → one post, or null
//
// Each handler makes at most one datastore call.

package httpserver

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/medium-blog/internal/auth"
	"github.com/robalobadob/medium-blog/internal/blog"
	"github.com/robalobadob/medium-blog/internal/schema"
)

// mountBlog registers all /api/v1/blog routes.
func (s *Server) mountBlog(r chi.Router) {
	r.Route("/api/v1/blog", func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Post("/", s.handleCreatePost)
		r.Put("/", s.handleUpdatePost)
		r.Get("/bulk", s.handleListPosts)
		r.Get("/{id}", s.handleGetPost)
	})
}

// idRes is returned by create and update.
type idRes struct {
	ID int64 `json:"id"`
}

type msgRes struct {
	Msg string `json:"msg"`
}

// readBody reads the request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// -----------------------------------------------------------------------------
// POST /

// handleCreatePost validates {title, content} and inserts a post owned by
// the authenticated subject.
//   - shape mismatch → 403 Invalid Inputs
//   - unreadable body, missing subject or datastore failure → 411
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusLengthRequired, msgRes{Msg: "Error creating post"})
		return
	}
	in, err := s.validator.ValidateCreatePost(body)
	if err != nil {
		var pe *schema.ParseError
		if errors.As(err, &pe) {
			writeJSON(w, http.StatusLengthRequired, msgRes{Msg: "Error creating post"})
			return
		}
		writeJSON(w, http.StatusForbidden, msgRes{Msg: "Invalid Inputs"})
		return
	}
	authorID, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		// No author to reference; the insert could not satisfy the foreign key.
		hlog.FromRequest(r).Warn().Msg("create post without subject")
		writeJSON(w, http.StatusLengthRequired, msgRes{Msg: "Error creating post"})
		return
	}

	p, err := s.store.CreatePost(r.Context(), in.Title, in.Content, authorID)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("create post")
		writeJSON(w, http.StatusLengthRequired, msgRes{Msg: "Error creating post"})
		return
	}
	writeJSON(w, http.StatusOK, idRes{ID: p.ID})
}

// -----------------------------------------------------------------------------
// PUT /

// handleUpdatePost validates {id, title, content} and updates that post.
// The caller's subject is not consulted: any authenticated user may edit
// any post.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusForbidden, msgRes{Msg: "Invalid Inputs"})
		return
	}
	in, err := s.validator.ValidateUpdatePost(body)
	if err != nil {
		writeJSON(w, http.StatusForbidden, msgRes{Msg: "Invalid Inputs"})
		return
	}
	id, ok := in.PostID()
	if !ok {
		writeJSON(w, http.StatusForbidden, msgRes{Msg: "Error updating post"})
		return
	}

	p, err := s.store.UpdatePost(r.Context(), id, in.Title, in.Content)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Int64("postId", id).Msg("update post")
		writeJSON(w, http.StatusForbidden, msgRes{Msg: "Error updating post"})
		return
	}
	writeJSON(w, http.StatusOK, idRes{ID: p.ID})
}

// -----------------------------------------------------------------------------
// GET /bulk

type listRes struct {
	Blogs []blog.PostView `json:"blogs"`
}

// handleListPosts returns every post; no filtering, no pagination.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListPosts(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list posts")
		writeJSON(w, http.StatusForbidden, map[string]any{"msg": "error fetching blogs", "e": errPayload(err)})
		return
	}
	if posts == nil {
		posts = []blog.PostView{}
	}
	writeJSON(w, http.StatusOK, listRes{Blogs: posts})
}

// -----------------------------------------------------------------------------
// GET /{id}

type getRes struct {
	Blog *blog.PostView `json:"blog"`
}

// handleGetPost returns {"blog": post} or {"blog": null}. An id that is
// not an integer matches nothing.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusOK, getRes{})
		return
	}
	v, err := s.store.FindPost(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("postId", id).Msg("find post")
		writeJSON(w, http.StatusForbidden, map[string]any{
			"msg": "error fetching the  blog for you",
			"e":   errPayload(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, getRes{Blog: v})
}

// parsePostID converts a path segment to a post id. Numeric forms such as
// "1.0" or "1e1" are accepted when they denote an integer.
func parsePostID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}
