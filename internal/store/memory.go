// internal/store/memory.go
//
// In-memory store of per-session score ledgers.
// A ledger lives only as long as the process; submitting a game copies its
// results into the durable history, the ledger itself is never persisted.
//
// Characteristics:
//   - Ledgers keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing session IDs on Get().
//   - Only GetOrCreate adds entries; callers use it for routes that change a
//     ledger, so sessions that only read never occupy memory.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/godfather/server/internal/ledger"
)

// ErrNotFound is returned by Get when no ledger exists for the session.
var ErrNotFound = errors.New("ledger not found")

// Store defines the persistence interface for session ledgers.
type Store interface {
	// Get retrieves a ledger by session ID.
	Get(ctx context.Context, id string) (*ledger.Ledger, error)

	// GetOrCreate returns the session's ledger, creating an empty one if missing.
	GetOrCreate(ctx context.Context, id string) (*ledger.Ledger, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex              // guards ledgers map
	ledgers map[string]*ledger.Ledger // keyed by Ledger.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{ledgers: make(map[string]*ledger.Ledger)}
}

// Get looks up a ledger by session ID.
func (m *memory) Get(ctx context.Context, id string) (*ledger.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.ledgers[id]; ok {
		return l, nil
	}
	return nil, ErrNotFound
}

// GetOrCreate returns the existing ledger or stores a fresh one.
func (m *memory) GetOrCreate(ctx context.Context, id string) (*ledger.Ledger, error) {
	if l, err := m.Get(ctx, id); err == nil {
		return l, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.ledgers[id]; ok {
		return l, nil
	}
	l := ledger.New(id)
	m.ledgers[id] = l
	return l, nil
}
