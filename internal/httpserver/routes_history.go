// internal/httpserver/routes_history.go
//
// HTTP routes for past games, mounted under /history:
//   - GET /history             → every game, newest first, with medal summary
//   - GET /history/{gameID}    → one game
//   - GET /history/export.csv  → all rows in the persisted column order
//
// Every request reads the full history from the store; nothing is cached.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/godfather/server/internal/history"
)

// historyServer wraps dependencies for /history endpoints.
type historyServer struct {
	store history.Store
}

// mountHistory registers all /history routes.
func (s *Server) mountHistory(r chi.Router) {
	hs := &historyServer{store: s.history}
	r.Route("/history", func(r chi.Router) {
		r.Get("/", hs.handleList)
		r.Get("/export.csv", hs.handleExport)
		r.Get("/{gameID}", hs.handleGame)
	})
}

// readRows loads every row or writes a 502; ok=false means stop.
func (h *historyServer) readRows(w http.ResponseWriter, r *http.Request) ([]history.Row, bool) {
	rows, err := h.store.ReadAll(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("read history")
		writeError(w, http.StatusBadGateway, "history_unavailable", "Could not load the game history. Try again.")
		return nil, false
	}
	return rows, true
}

// listRes is returned by GET /history.
type listRes struct {
	Games []history.Game `json:"games"`
}

func (h *historyServer) handleList(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listRes{Games: history.Group(rows)})
}

func (h *historyServer) handleGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_game_id", "Game id must be an integer.")
		return
	}
	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}
	g, found := history.Find(history.Group(rows), id)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "No game with that id.")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleExport streams the raw rows as CSV.
func (h *historyServer) handleExport(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="godfather_game_history.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := history.WriteCSV(w, rows); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("write csv export")
	}
}
