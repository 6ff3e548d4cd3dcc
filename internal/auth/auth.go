// internal/auth/auth.go
//
// Score keeper authentication.
// Appending to the game history can be restricted to whoever knows the
// keeper password. When KEEPER_PASSWORD_HASH is empty the gate is off and
// everyone may submit.
//
// Flow:
//   - POST /auth/login checks the password against a bcrypt hash and sets an
//     HS256 JWT cookie (also accepted as "Authorization: Bearer <token>").
//   - Require() guards routes; it 401s without a valid keeper token.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const keeperRole = "keeper"

var (
	ErrBadPassword  = errors.New("invalid password")
	ErrInvalidToken = errors.New("invalid token")
)

// Config controls the keeper gate.
type Config struct {
	PasswordHash string        // bcrypt hash; empty disables the gate
	Secret       string        // HS256 signing key
	CookieName   string        // auth cookie name
	TTL          time.Duration // token lifetime
	Secure       bool          // Secure + SameSite=None cookies
}

// FromEnv reads KEEPER_PASSWORD_HASH, JWT_SECRET, JWT_EXPIRES_DAYS (default 14),
// COOKIE_NAME and NODE_ENV. JWT_SECRET has no default; see New.
func FromEnv() Config {
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	return Config{
		PasswordHash: os.Getenv("KEEPER_PASSWORD_HASH"),
		Secret:       os.Getenv("JWT_SECRET"),
		CookieName:   getEnv("COOKIE_NAME", "godfather_keeper"),
		TTL:          time.Duration(days) * 24 * time.Hour,
		Secure:       os.Getenv("NODE_ENV") == "production",
	}
}

// Keeper issues and checks keeper tokens.
type Keeper struct{ cfg Config }

// New constructs a Keeper, filling empty cookie name and TTL with defaults.
// An empty Secret is replaced by a random per-process key, so keeper tokens
// stop verifying after a restart.
func New(cfg Config) *Keeper {
	if cfg.Secret == "" {
		cfg.Secret = randomSecret()
		if cfg.PasswordHash != "" {
			log.Warn().Msg("JWT_SECRET not set; using a per-process secret, keeper logins end on restart")
		}
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "godfather_keeper"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 14 * 24 * time.Hour
	}
	return &Keeper{cfg: cfg}
}

// Required reports whether submission is password protected.
func (k *Keeper) Required() bool { return k.cfg.PasswordHash != "" }

func randomSecret() string {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		log.Fatal().Err(err).Msg("read random jwt secret")
	}
	return hex.EncodeToString(b[:])
}

// HashPassword returns a bcrypt hash suitable for KEEPER_PASSWORD_HASH.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

// Login checks pw and returns a signed keeper token with its expiry.
func (k *Keeper) Login(pw string) (string, time.Time, error) {
	if !k.Required() {
		return k.sign()
	}
	if bcrypt.CompareHashAndPassword([]byte(k.cfg.PasswordHash), []byte(pw)) != nil {
		return "", time.Time{}, ErrBadPassword
	}
	return k.sign()
}

func (k *Keeper) sign() (string, time.Time, error) {
	exp := time.Now().Add(k.cfg.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": keeperRole,
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(k.cfg.Secret))
	return ss, exp, err
}

// Verify checks signature, expiry and role of a keeper token.
func (k *Keeper) Verify(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(k.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != keeperRole {
		return ErrInvalidToken
	}
	return nil
}

// IsKeeper reports whether r may submit games.
func (k *Keeper) IsKeeper(r *http.Request) bool {
	if !k.Required() {
		return true
	}
	return k.Verify(k.TokenFrom(r)) == nil
}

// Require enforces a valid keeper token when the gate is on.
func (k *Keeper) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !k.IsKeeper(r) {
				log.Warn().Str("path", r.URL.Path).Msg("keeper token missing or invalid")
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "Log in as score keeper to submit games.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetCookie writes the keeper token cookie.
func (k *Keeper) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     k.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   k.cfg.Secure,
		SameSite: k.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the keeper token cookie.
func (k *Keeper) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     k.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   k.cfg.Secure,
		SameSite: k.sameSite(),
		MaxAge:   -1,
	})
}

func (k *Keeper) sameSite() http.SameSite {
	if k.cfg.Secure {
		return http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// TokenFrom extracts a bearer token from the Authorization header or cookie.
func (k *Keeper) TokenFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(k.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
