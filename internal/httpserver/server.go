// internal/httpserver/server.go
//
// HTTP server wiring for the Godfather score keeper.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access log).
//   - Public endpoints: "/", "/health", "/categories", "/qr".
//   - Game endpoints (session cookie): /game, /game/players, /game/scores,
//     /game/leaderboard, POST /game/submit (keeper-gated when configured).
//   - History endpoints: mounted under /history.
//   - Keeper auth endpoints: /auth/login, /auth/logout, /auth/me.
//
// Notes:
//   - Every browser gets its own ledger, keyed by an HttpOnly session cookie
//     that expires with the browser session.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/godfather/server/internal/auth"
	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/history"
	"github.com/robalobadob/godfather/server/internal/qrcode"
	"github.com/robalobadob/godfather/server/internal/store"
)

// Server bundles router, session ledgers, history store and keeper auth.
type Server struct {
	r         *chi.Mux
	sessions  store.Store
	history   history.Store
	keeper    *auth.Keeper
	publicURL string
	now       func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions store.Store, hist history.Store, keeper *auth.Keeper) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		sessions:  sessions,
		history:   hist,
		keeper:    keeper,
		publicURL: os.Getenv("PUBLIC_URL"),
		now:       time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "godfather-scores",
			"endpoints": []string{
				"/health", "/categories", "/game", "POST /game/players", "PUT /game/scores",
				"POST /game/submit", "/history", "/history/export.csv", "/auth/*", "/qr",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/categories", handleCategories)
	s.r.Get("/qr", s.handleQR)

	s.mountGame()
	s.mountHistory(s.r)
	s.mountAuth()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs method, path, status, size and latency via the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------ catalog / qr -------------------------------

type categoriesRes struct {
	Categories []catalog.Category       `json:"categories"`
	Bonus      []catalog.Category       `json:"bonus"`
	Weights    map[catalog.Category]int `json:"weights"`
	BonusPts   int                      `json:"bonusPoints"`
	Columns    []string                 `json:"columns"`
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesRes{
		Categories: catalog.Categories(),
		Bonus:      catalog.BonusCategories(),
		Weights:    catalog.Weights(),
		BonusPts:   catalog.BonusPoints,
		Columns:    catalog.Columns(),
	})
}

// handleQR renders a QR code pointing at PUBLIC_URL, or this host when unset.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	target := s.publicURL
	if target == "" {
		target = "http://" + r.Host + "/"
	}
	png, err := qrcode.Generate(target)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("url", target).Msg("qr generation")
		writeError(w, http.StatusInternalServerError, "qr_failed", "QR generation failed.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ------------------------------- session -----------------------------------

const sessionCookieName = "godfather_session"

// sessionID returns the session cookie value, or "" when there is none.
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureSessionID returns the session cookie or sets a new one.
// No Expires: the ledger lives for the browser session.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := genID()
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	})
	return id
}

// ------------------------------- small util --------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": code, "message": msg}.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
