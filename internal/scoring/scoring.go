// internal/scoring/scoring.go
//
// Turns a score ledger into a leaderboard.
//
// Scoring rules:
//   - Base = 1·$1 + 2·$2 + 3·$3 + 5·$5 + 5·Domination.
//   - For each color category, every player whose count equals the highest
//     count wins BonusPoints, provided that highest count is above zero.
//     Tied players each receive the full bonus. A lone player with a positive
//     count is the highest and wins.
//   - Total = Base + Bonus.
//
// Results are ordered by Total descending. Equal totals keep ledger order.
package scoring

import (
	"sort"

	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/ledger"
)

// Result is one player's scored row.
type Result struct {
	Player string             `json:"player"`
	Counts catalog.Counts     `json:"counts"`
	Base   int                `json:"base"`
	Bonus  int                `json:"bonus"`
	Won    []catalog.Category `json:"won"`
	Total  int                `json:"total"`
}

// Compute scores every entry and returns the leaderboard.
// An empty ledger yields an empty (non-nil) slice.
func Compute(entries []ledger.Entry) []Result {
	winners := BonusWinners(entries)

	out := make([]Result, 0, len(entries))
	for _, e := range entries {
		r := Result{Player: e.Player, Counts: e.Counts.Clone(), Won: []catalog.Category{}}
		r.Base = Base(e.Counts)
		for _, c := range catalog.BonusCategories() {
			if contains(winners[c], e.Player) {
				r.Won = append(r.Won, c)
				r.Bonus += catalog.BonusPoints
			}
		}
		r.Total = r.Base + r.Bonus
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// Base applies the category weights; bonus categories contribute nothing.
func Base(c catalog.Counts) int {
	sum := 0
	for _, cat := range catalog.Categories() {
		if w, ok := catalog.Weight(cat); ok {
			sum += w * c[cat]
		}
	}
	return sum
}

// BonusWinners returns, per bonus category, the players holding the highest
// count. Categories whose highest count is zero or below have no winners.
func BonusWinners(entries []ledger.Entry) map[catalog.Category][]string {
	out := make(map[catalog.Category][]string, len(catalog.BonusCategories()))
	if len(entries) == 0 {
		return out
	}
	for _, c := range catalog.BonusCategories() {
		top := entries[0].Counts[c]
		for _, e := range entries[1:] {
			if v := e.Counts[c]; v > top {
				top = v
			}
		}
		if top <= 0 {
			continue
		}
		for _, e := range entries {
			if e.Counts[c] == top {
				out[c] = append(out[c], e.Player)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
