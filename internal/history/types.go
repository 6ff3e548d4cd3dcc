// internal/history/types.go
//
// Game history records and the store contract.
// Defines:
//   - Row: one player's result in one submitted game (the persisted unit).
//   - Store: append/read access to the durable history log.
//   - Conversions between Row and the header-keyed string record used by
//     spreadsheet-like backends (absent columns default to empty/zero).

package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/scoring"
)

// ErrEmptyGame is returned when appending a game with no rows.
var ErrEmptyGame = errors.New("history: game has no rows")

// Row is a persisted game result for one player.
type Row struct {
	Player string         `json:"player"`
	Counts catalog.Counts `json:"counts"`
	Total  int            `json:"total"`
	GameID int            `json:"gameId"`
	Date   string         `json:"date"`
}

// Store is the durable game history.
// Implementations: memory (this package), SQLite, CSV sheet file.
type Store interface {
	// ReadAll returns every persisted row in append order.
	ReadAll(ctx context.Context) ([]Row, error)

	// AppendGame assigns the next game id (max existing + 1, or 1 when empty)
	// and the timestamp at to every row, then persists them.
	// Returns the assigned game id.
	AppendGame(ctx context.Context, rows []Row, at time.Time) (int, error)
}

// FromResults converts a scored leaderboard into unsaved history rows.
func FromResults(results []scoring.Result) []Row {
	out := make([]Row, 0, len(results))
	for _, r := range results {
		out = append(out, Row{Player: r.Player, Counts: r.Counts.Clone(), Total: r.Total})
	}
	return out
}

// NextGameID returns one more than the highest GameID in rows.
func NextGameID(rows []Row) int {
	top := 0
	for _, r := range rows {
		if r.GameID > top {
			top = r.GameID
		}
	}
	return top + 1
}

// FormatDate renders a submission time as stored in the Date column.
func FormatDate(at time.Time) string {
	return at.UTC().Format(time.RFC3339)
}

// stamp copies rows, setting GameID and Date on each.
func stamp(rows []Row, gameID int, at time.Time) []Row {
	date := FormatDate(at)
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Counts = r.Counts.Clone()
		r.GameID = gameID
		r.Date = date
		out[i] = r
	}
	return out
}

// Values renders r in catalog.Columns() order.
func (r Row) Values() []string {
	vals := make([]string, 0, len(catalog.Columns()))
	vals = append(vals, r.Player)
	for _, c := range catalog.Categories() {
		vals = append(vals, strconv.Itoa(r.Counts[c]))
	}
	return append(vals, strconv.Itoa(r.Total), strconv.Itoa(r.GameID), r.Date)
}

// FromRecord parses a header-keyed record.
// Missing or blank numeric columns read as zero; anything else that is not
// an integer is an error.
func FromRecord(rec map[string]string) (Row, error) {
	r := Row{
		Player: rec[catalog.ColPlayer],
		Counts: catalog.NewCounts(),
		Date:   rec[catalog.ColDate],
	}
	for _, c := range catalog.Categories() {
		n, err := parseCount(rec, string(c))
		if err != nil {
			return Row{}, err
		}
		r.Counts[c] = n
	}
	var err error
	if r.Total, err = parseCount(rec, catalog.ColTotal); err != nil {
		return Row{}, err
	}
	if r.GameID, err = parseCount(rec, catalog.ColGameID); err != nil {
		return Row{}, err
	}
	return r, nil
}

func parseCount(rec map[string]string, col string) (int, error) {
	s := strings.TrimSpace(rec[col])
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an integer", col, s)
	}
	return n, nil
}
