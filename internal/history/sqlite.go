// internal/history/sqlite.go
//
// SQLite-backed Store over the game_results table.
//
// AppendGame reads MAX(game_id) and inserts the batch inside one transaction.
// The connection is opened with _txlock=immediate (see internal/database), so
// two concurrent submissions cannot both observe the same maximum; the
// UNIQUE(game_id, player) constraint backs this up.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/godfather/server/internal/catalog"
)

// SQLStore persists rows in SQLite.
type SQLStore struct{ db *sql.DB }

// NewSQLStore wraps an opened and migrated database.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// ReadAll returns rows ordered by insertion.
func (s *SQLStore) ReadAll(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT player, c1, c2, c3, c5, green, yellow, grey, blue, domination,
               total, game_id, date
        FROM game_results
        ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}
	defer rows.Close()

	// Category columns are declared in catalog.Categories() order.
	out := []Row{}
	for rows.Next() {
		r := Row{Counts: catalog.NewCounts()}
		var c [9]int
		if err := rows.Scan(&r.Player, &c[0], &c[1], &c[2], &c[3], &c[4], &c[5], &c[6], &c[7], &c[8],
			&r.Total, &r.GameID, &r.Date); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		for i, cat := range catalog.Categories() {
			r.Counts[cat] = c[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}
	return out, nil
}

// AppendGame inserts the batch under MAX(game_id)+1 in a single transaction.
func (s *SQLStore) AppendGame(ctx context.Context, rows []Row, at time.Time) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyGame
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var top int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(game_id), 0) FROM game_results`).Scan(&top); err != nil {
		return 0, fmt.Errorf("history: next game id: %w", err)
	}
	id := top + 1

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO game_results
            (player, c1, c2, c3, c5, green, yellow, grey, blue, domination, total, game_id, date)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range stamp(rows, id, at) {
		args := []any{r.Player}
		for _, cat := range catalog.Categories() {
			args = append(args, r.Counts[cat])
		}
		args = append(args, r.Total, r.GameID, r.Date)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("history: insert %q: %w", r.Player, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return id, nil
}
