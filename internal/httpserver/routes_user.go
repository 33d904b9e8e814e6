// internal/httpserver/routes_user.go
//
// Account routes, mounted under /api/v1/user without auth:
//   - POST /signup → create a user, return a token
//   - POST /signin → check credentials, return a token
//
// Tokens carry the user id in the "id" claim read by requireAuth.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/medium-blog/internal/auth"
	"github.com/robalobadob/medium-blog/internal/store"
)

// mountUser registers all /api/v1/user routes.
func (s *Server) mountUser(r chi.Router) {
	r.Route("/api/v1/user", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/signin", s.handleSignin)
	})
}

type tokenRes struct {
	JWT string `json:"jwt"`
}

type messageRes struct {
	Message string `json:"message"`
}

// handleSignup validates {email, password, name?}, stores a bcrypt hash,
// and returns a token for the new user. Bad input and taken emails are 411.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Inputs not correct"})
		return
	}
	in, err := s.validator.ValidateSignup(body)
	if err != nil {
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Inputs not correct"})
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("hash password")
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Invalid"})
		return
	}
	u, err := s.store.CreateUser(r.Context(), in.Email, in.Name, hash)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Email already in use"})
			return
		}
		hlog.FromRequest(r).Warn().Err(err).Msg("create user")
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Invalid"})
		return
	}
	s.writeToken(w, r, u.ID)
}

// handleSignin validates {email, password} and returns a token when the
// password matches. Unknown email and wrong password are both 403.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Inputs not correct"})
		return
	}
	in, err := s.validator.ValidateSignin(body)
	if err != nil {
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Inputs not correct"})
		return
	}
	u, err := s.store.FindUserByEmail(r.Context(), in.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		hlog.FromRequest(r).Error().Err(err).Msg("find user")
		writeJSON(w, http.StatusLengthRequired, messageRes{Message: "Invalid"})
		return
	}
	if err != nil || !auth.CheckPassword(u.PasswordHash, in.Password) {
		writeJSON(w, http.StatusForbidden, messageRes{Message: "Incorrect creds"})
		return
	}
	s.writeToken(w, r, u.ID)
}

func (s *Server) writeToken(w http.ResponseWriter, r *http.Request, userID int64) {
	tok, err := s.tokens.Issue(userID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeJSON(w, http.StatusInternalServerError, messageRes{Message: "sign_failed"})
		return
	}
	writeJSON(w, http.StatusOK, tokenRes{JWT: tok})
}
