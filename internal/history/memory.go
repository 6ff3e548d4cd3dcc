// internal/history/memory.go
//
// In-memory implementation of Store.
// Used in tests and when HISTORY_BACKEND=memory; rows are lost on restart.
// Appends are serialized by a mutex, so game ids never collide in-process.

package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps rows in a slice in append order.
type MemoryStore struct {
	mu   sync.RWMutex // guards rows
	rows []Row
}

// NewMemoryStore constructs a MemoryStore preloaded with rows.
func NewMemoryStore(rows ...Row) *MemoryStore {
	return &MemoryStore{rows: append([]Row(nil), rows...)}
}

// ReadAll returns a copy of every row.
func (m *MemoryStore) ReadAll(ctx context.Context) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Row, len(m.rows))
	for i, r := range m.rows {
		r.Counts = r.Counts.Clone()
		out[i] = r
	}
	return out, nil
}

// AppendGame stamps and stores rows under the next game id.
func (m *MemoryStore) AppendGame(ctx context.Context, rows []Row, at time.Time) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyGame
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := NextGameID(m.rows)
	m.rows = append(m.rows, stamp(rows, id, at)...)
	return id, nil
}
