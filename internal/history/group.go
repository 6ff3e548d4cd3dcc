// internal/history/group.go
//
// Builds the game history view from raw rows.
// Rows are grouped by GameID (newest game first). Each game takes the Date of
// its first row in read order, and medals are recomputed from the stored
// Total rather than trusted from any prior ranking.

package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/robalobadob/godfather/server/internal/catalog"
)

var medalSymbols = []string{"🥇", "🥈", "🥉"}

// Medal is a podium place in one game.
type Medal struct {
	Place  int    `json:"place"`
	Symbol string `json:"symbol"`
	Player string `json:"player"`
	Total  int    `json:"total"`
}

// DisplayRow is a Row without GameID and Date.
type DisplayRow struct {
	Player string         `json:"player"`
	Counts catalog.Counts `json:"counts"`
	Total  int            `json:"total"`
}

// Game is one submitted game as shown in the history view.
type Game struct {
	GameID  int          `json:"gameId"`
	Date    string       `json:"date"`
	Summary string       `json:"summary"`
	Medals  []Medal      `json:"medals"`
	Rows    []DisplayRow `json:"rows"`
}

// Group organizes rows into games ordered by GameID descending.
func Group(rows []Row) []Game {
	byID := make(map[int][]Row)
	var ids []int
	for _, r := range rows {
		if _, ok := byID[r.GameID]; !ok {
			ids = append(ids, r.GameID)
		}
		byID[r.GameID] = append(byID[r.GameID], r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	out := make([]Game, 0, len(ids))
	for _, id := range ids {
		group := byID[id]
		g := Game{
			GameID: id,
			Date:   group[0].Date,
			Medals: Medals(group),
			Rows:   make([]DisplayRow, 0, len(group)),
		}
		g.Summary = Summary(g.Medals)
		for _, r := range group {
			g.Rows = append(g.Rows, DisplayRow{Player: r.Player, Counts: r.Counts.Clone(), Total: r.Total})
		}
		out = append(out, g)
	}
	return out
}

// Medals ranks rows by Total descending and awards up to three medals.
// Equal totals keep read order.
func Medals(rows []Row) []Medal {
	ranked := append([]Row(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })

	n := len(ranked)
	if n > len(medalSymbols) {
		n = len(medalSymbols)
	}
	out := make([]Medal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Medal{
			Place:  i + 1,
			Symbol: medalSymbols[i],
			Player: ranked[i].Player,
			Total:  ranked[i].Total,
		})
	}
	return out
}

// Summary renders medals as "🥇 A (20) 🥈 B (15)".
func Summary(medals []Medal) string {
	parts := make([]string, 0, len(medals))
	for _, m := range medals {
		parts = append(parts, fmt.Sprintf("%s %s (%d)", m.Symbol, m.Player, m.Total))
	}
	return strings.Join(parts, " ")
}

// Find returns the game with the given id.
func Find(games []Game, id int) (Game, bool) {
	for _, g := range games {
		if g.GameID == id {
			return g, true
		}
	}
	return Game{}, false
}
