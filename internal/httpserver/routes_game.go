// internal/httpserver/routes_game.go
//
// HTTP routes for the game being scored in this session:
//   - GET    /game              → players, counts and leaderboard
//   - POST   /game/players      → add a player (duplicate → warning, ignored)
//   - DELETE /game/players      → remove every player
//   - PUT    /game/scores       → set one count
//   - GET    /game/leaderboard  → leaderboard only
//   - POST   /game/submit       → append the leaderboard to the history
//
// The leaderboard is recomputed from the ledger on every response.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/history"
	"github.com/robalobadob/godfather/server/internal/ledger"
	"github.com/robalobadob/godfather/server/internal/scoring"
	"github.com/robalobadob/godfather/server/internal/store"
)

const duplicatePlayerWarning = "Player already added."

// gameState is returned by every /game route except submit.
type gameState struct {
	Players     []string         `json:"players"`
	Scores      []ledger.Entry   `json:"scores"`
	Leaderboard []scoring.Result `json:"leaderboard"`
	Warning     string           `json:"warning,omitempty"`
}

// mountGame registers all /game routes.
func (s *Server) mountGame() {
	s.r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleGame)
		r.Post("/players", s.handleAddPlayer)
		r.Delete("/players", s.handleResetPlayers)
		r.Put("/scores", s.handleSetScore)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.With(s.keeper.Require()).Post("/submit", s.handleSubmit)
	})
}

func stateOf(l *ledger.Ledger) gameState {
	entries := l.Entries()
	return gameState{
		Players:     l.Players(),
		Scores:      entries,
		Leaderboard: scoring.Compute(entries),
	}
}

// sessionLedger loads the caller's ledger without storing anything. A
// session with no ledger yet gets an empty, unsaved one; ok=false means a
// 500 was written.
func (s *Server) sessionLedger(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, bool) {
	id := sessionID(r)
	if id == "" {
		return ledger.New(""), true
	}
	l, err := s.sessions.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ledger.New(id), true
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("load session ledger")
		writeError(w, http.StatusInternalServerError, "session_failed", "Could not load this game.")
		return nil, false
	}
	return l, true
}

// createLedger returns the caller's stored ledger, creating the session
// cookie and the ledger if needed.
func (s *Server) createLedger(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, bool) {
	l, err := s.sessions.GetOrCreate(r.Context(), s.ensureSessionID(w, r))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create session ledger")
		writeError(w, http.StatusInternalServerError, "session_failed", "Could not load this game.")
		return nil, false
	}
	return l, true
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	l, ok := s.sessionLedger(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(l))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	l, ok := s.sessionLedger(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scoring.Compute(l.Entries()))
}

// addPlayerReq is the payload for POST /game/players.
type addPlayerReq struct {
	Name string `json:"name"`
}

// handleAddPlayer adds a player. A duplicate name is not an error: the
// request is ignored and the state comes back with a warning.
func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "Request body must be JSON.")
		return
	}
	l, ok := s.createLedger(w, r)
	if !ok {
		return
	}

	err := l.AddPlayer(req.Name)
	switch {
	case errors.Is(err, ledger.ErrDuplicatePlayer):
		hlog.FromRequest(r).Debug().Str("player", req.Name).Msg("duplicate player ignored")
		st := stateOf(l)
		st.Warning = duplicatePlayerWarning
		writeJSON(w, http.StatusOK, st)
	case errors.Is(err, ledger.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "empty_name", "Enter a player name.")
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_player", err.Error())
	default:
		writeJSON(w, http.StatusCreated, stateOf(l))
	}
}

func (s *Server) handleResetPlayers(w http.ResponseWriter, r *http.Request) {
	l, ok := s.sessionLedger(w, r)
	if !ok {
		return
	}
	l.Reset()
	writeJSON(w, http.StatusOK, stateOf(l))
}

// setScoreReq is the payload for PUT /game/scores.
type setScoreReq struct {
	Player   string `json:"player"`
	Category string `json:"category"`
	Value    int    `json:"value"`
}

func (s *Server) handleSetScore(w http.ResponseWriter, r *http.Request) {
	var req setScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "Request body must be JSON with an integer value.")
		return
	}
	l, ok := s.sessionLedger(w, r)
	if !ok {
		return
	}

	err := l.SetScore(req.Player, req.Category, req.Value)
	switch {
	case errors.Is(err, catalog.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "unknown_category", err.Error())
	case errors.Is(err, ledger.ErrUnknownPlayer):
		writeError(w, http.StatusNotFound, "unknown_player", err.Error())
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid_score", err.Error())
	default:
		writeJSON(w, http.StatusOK, stateOf(l))
	}
}

// submitRes is returned by POST /game/submit.
type submitRes struct {
	GameID      int              `json:"gameId"`
	Date        string           `json:"date"`
	Message     string           `json:"message"`
	Leaderboard []scoring.Result `json:"leaderboard"`
}

// handleSubmit scores the ledger and appends it to the history as one game.
// Store failures are logged and reported, never retried.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	l, ok := s.sessionLedger(w, r)
	if !ok {
		return
	}
	entries := l.Entries()
	if len(entries) == 0 {
		writeError(w, http.StatusBadRequest, "no_players", "Add at least one player before submitting.")
		return
	}

	results := scoring.Compute(entries)
	at := s.now()
	id, err := s.history.AppendGame(r.Context(), history.FromResults(inEntryOrder(entries, results)), at)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int("players", len(entries)).Msg("append game")
		writeError(w, http.StatusBadGateway, "history_unavailable", "Could not save the game. Try again.")
		return
	}

	hlog.FromRequest(r).Info().Int("gameId", id).Int("players", len(entries)).Msg("game submitted")
	writeJSON(w, http.StatusCreated, submitRes{
		GameID:      id,
		Date:        history.FormatDate(at),
		Message:     "Game submitted.",
		Leaderboard: results,
	})
}

// inEntryOrder reorders results to match the order players were added in.
// History rows keep that order; medals are ranked from the totals on read.
func inEntryOrder(entries []ledger.Entry, results []scoring.Result) []scoring.Result {
	byPlayer := make(map[string]scoring.Result, len(results))
	for _, res := range results {
		byPlayer[res.Player] = res
	}
	out := make([]scoring.Result, 0, len(entries))
	for _, e := range entries {
		out = append(out, byPlayer[e.Player])
	}
	return out
}
