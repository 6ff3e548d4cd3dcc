// internal/ledger/ledger.go
//
// Mutations on a session's score ledger.
// Responsibilities:
//   - Add players (names unique within the ledger, non-empty).
//   - Reset the whole ledger.
//   - Overwrite a player's count for a category.
//
// Notes:
//   - Counts are signed and unvalidated; a negative count lowers the total.
//   - There is no way to remove a single player, only Reset.
package ledger

import (
	"errors"
	"fmt"

	"github.com/robalobadob/godfather/server/internal/catalog"
)

var (
	ErrEmptyName       = errors.New("player name is empty")
	ErrDuplicatePlayer = errors.New("player already added")
	ErrUnknownPlayer   = errors.New("unknown player")
)

// New constructs an empty ledger for the given session.
func New(id string) *Ledger {
	return &Ledger{
		ID:     id,
		scores: make(map[string]catalog.Counts),
	}
}

// AddPlayer appends name with zero counts in every category.
// A name already present is left untouched and ErrDuplicatePlayer is returned.
func (l *Ledger) AddPlayer(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.scores[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
	}
	l.players = append(l.players, name)
	l.scores[name] = catalog.NewCounts()
	return nil
}

// Reset drops every player and score.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.players = nil
	l.scores = make(map[string]catalog.Counts)
}

// SetScore overwrites player's count for the category labelled cat.
func (l *Ledger) SetScore(player, cat string, value int) error {
	c, err := catalog.Parse(cat)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	counts, ok := l.scores[player]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
	counts[c] = value
	return nil
}

// Players returns player names in insertion order.
func (l *Ledger) Players() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.players...)
}

// Entries returns a copy of every player's counts in insertion order.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, Entry{Player: p, Counts: l.scores[p].Clone()})
	}
	return out
}

// Len reports the number of players.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.players)
}
