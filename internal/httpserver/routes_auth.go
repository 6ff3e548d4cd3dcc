package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/godfather/server/internal/auth"
)

type loginReq struct {
	Password string `json:"password"`
}

type meRes struct {
	Keeper   bool `json:"keeper"`
	Required bool `json:"required"`
}

// mountAuth registers keeper login/logout and the current role.
func (s *Server) mountAuth() {
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, meRes{Keeper: s.keeper.IsKeeper(r), Required: s.keeper.Required()})
	})
}

// handleLogin checks the keeper password and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Request body must be JSON.")
		return
	}
	tok, exp, err := s.keeper.Login(body.Password)
	if errors.Is(err, auth.ErrBadPassword) {
		writeError(w, http.StatusUnauthorized, "bad_password", "Wrong keeper password.")
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign keeper token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "Could not log in.")
		return
	}
	s.keeper.SetCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]any{"keeper": true, "token": tok, "expiresAt": exp.UTC()})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.keeper.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
