// internal/httpserver/server.go
//
// HTTP server wiring for the blog backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - User endpoints (no auth): mounted under /api/v1/user.
//   - Blog endpoints (require auth): mounted under /api/v1/blog.
//
// Notes:
//   - Every error is written as a JSON body; status codes and the msg/message
//     key naming are kept compatible with existing clients.
//   - CORS is origin-aware and credentials-enabled.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/medium-blog/internal/auth"
	"github.com/robalobadob/medium-blog/internal/schema"
	"github.com/robalobadob/medium-blog/internal/store"
)

// maxBodyBytes bounds request bodies read by the handlers.
const maxBodyBytes = 1 << 20

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID int64) (string, error)
	Verify(token string) (auth.Claims, error)
}

// Options are the dependencies of a Server. All of them are shared
// read-only across requests.
type Options struct {
	Store     store.Store
	Tokens    TokenService
	Validator *schema.Validator

	// ClientOrigin is the single origin allowed by CORS.
	ClientOrigin string
	// RequestTimeout bounds handler time; zero disables the limit.
	RequestTimeout time.Duration
	// Logger defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// Server bundles the router and its dependencies.
type Server struct {
	r         *chi.Mux
	store     store.Store
	tokens    TokenService
	validator *schema.Validator
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		store:     opts.Store,
		tokens:    opts.Tokens,
		validator: opts.Validator,
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(logger))
	s.r.Use(requestIDLogField)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		s.r.Use(chimw.Timeout(opts.RequestTimeout))
	}
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "medium-blog",
			"endpoints": []string{"/health", "/api/v1/user/*", "/api/v1/blog/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.mountUser(s.r)
	s.mountBlog(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestIDLogField tags the request logger with chi's request id.
func requestIDLogField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("reqId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ helpers ------------------------------------

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// errPayload is the "e" detail attached to datastore failures.
func errPayload(err error) map[string]string {
	return map[string]string{"message": err.Error()}
}
