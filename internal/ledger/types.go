// internal/ledger/types.go
//
// Type definitions for the per-session score ledger.
// Defines:
//   - Entry: one player's counts for every category.
//   - Ledger: the players of the game being scored and their counts.

package ledger

import (
	"sync"

	"github.com/robalobadob/godfather/server/internal/catalog"
)

// Entry is a snapshot of one player's row in the ledger.
type Entry struct {
	Player string         `json:"player"`
	Counts catalog.Counts `json:"counts"`
}

// Ledger holds the in-progress game for one session.
// Players keep insertion order; the leaderboard tie order depends on it.
type Ledger struct {
	ID      string                    // Session identifier owning this ledger.
	mu      sync.Mutex                // guards players and scores
	players []string                  // Names in the order they were added.
	scores  map[string]catalog.Counts // Keyed by player name; every category present.
}
