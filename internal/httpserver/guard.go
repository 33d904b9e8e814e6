// internal/httpserver/guard.go
//
// Auth guard for the blog routes.
//   - The raw Authorization header is handed to the verifier; no scheme
//     prefix is stripped.
//   - Verification failure → 403 {"msg": ...}.
//   - Verified but empty claims → 403 {"message": ...}.
//   - Otherwise the request proceeds. The subject is set only when the
//     claims carry a usable numeric id; handlers that need it check.

package httpserver

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/medium-blog/internal/auth"
)

// requireAuth verifies the authorization header and stores the token's id
// claim as the request subject. Rejections never reach the route handler.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.tokens.Verify(r.Header.Get("Authorization"))
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("token rejected")
				writeJSON(w, http.StatusForbidden, map[string]string{"msg": "You are not logged in"})
				return
			}
			if len(claims) == 0 {
				hlog.FromRequest(r).Debug().Msg("token with empty claims")
				writeJSON(w, http.StatusForbidden, map[string]string{"message": "Not logged in please try again"})
				return
			}
			id, err := claims.Subject()
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("token without usable id")
				next.ServeHTTP(w, r)
				return
			}
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Int64("userId", id)
			})
			next.ServeHTTP(w, r.WithContext(auth.WithSubject(r.Context(), id)))
		})
	}
}
