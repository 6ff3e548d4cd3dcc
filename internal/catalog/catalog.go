// internal/catalog/catalog.go
//
// Fixed score categories for a Godfather game.
// Defines:
//   - Category: one of the nine score dimensions (four currency, four color, domination).
//   - Weights for currency and domination categories.
//   - The bonus subset (colors) that award a flat bonus to the highest count.
//   - The canonical column order of a persisted history row.
//
// Everything here is constant for the process lifetime; accessors return copies.

package catalog

import (
	"errors"
	"fmt"
)

// Category is a score dimension label as shown to players and stored in history.
type Category string

const (
	One        Category = "$1"
	Two        Category = "$2"
	Three      Category = "$3"
	Five       Category = "$5"
	Green      Category = "Green"
	Yellow     Category = "Yellow"
	Grey       Category = "Grey"
	Blue       Category = "Blue"
	Domination Category = "Domination"
)

// BonusPoints is awarded to every player holding the highest count in a bonus category.
const BonusPoints = 5

// Column headers of a persisted row that are not categories.
const (
	ColPlayer = "Player"
	ColTotal  = "Total"
	ColGameID = "GameID"
	ColDate   = "Date"
)

// ErrUnknownCategory is returned by Parse for labels outside the catalog.
var ErrUnknownCategory = errors.New("unknown category")

var (
	ordered = []Category{One, Two, Three, Five, Green, Yellow, Grey, Blue, Domination}
	bonus   = []Category{Green, Yellow, Grey, Blue}
	weights = map[Category]int{
		One:        1,
		Two:        2,
		Three:      3,
		Five:       5,
		Domination: 5,
	}
)

// Counts maps each category to a player's count.
type Counts map[Category]int

// NewCounts returns a Counts with every category present and set to zero.
func NewCounts() Counts {
	c := make(Counts, len(ordered))
	for _, cat := range ordered {
		c[cat] = 0
	}
	return c
}

// Clone copies c, filling any missing category with zero.
func (c Counts) Clone() Counts {
	out := NewCounts()
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Categories returns the input categories in display order.
func Categories() []Category {
	return append([]Category(nil), ordered...)
}

// BonusCategories returns the color categories eligible for the highest-count bonus.
func BonusCategories() []Category {
	return append([]Category(nil), bonus...)
}

// Weight returns the per-count multiplier for c.
// Bonus categories have no weight and report ok=false.
func Weight(c Category) (w int, ok bool) {
	w, ok = weights[c]
	return w, ok
}

// Weights returns a copy of the weight table.
func Weights() map[Category]int {
	out := make(map[Category]int, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}

// Parse validates a label against the catalog.
func Parse(label string) (Category, error) {
	for _, c := range ordered {
		if string(c) == label {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// Columns returns the persisted row header:
// Player, the nine categories, Total, GameID, Date.
func Columns() []string {
	cols := make([]string, 0, len(ordered)+4)
	cols = append(cols, ColPlayer)
	for _, c := range ordered {
		cols = append(cols, string(c))
	}
	return append(cols, ColTotal, ColGameID, ColDate)
}
