package scoring_test

import (
	"testing"

	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/ledger"
	"github.com/robalobadob/godfather/server/internal/scoring"
)

func entry(name string, counts catalog.Counts) ledger.Entry {
	return ledger.Entry{Player: name, Counts: counts.Clone()}
}

func totals(rs []scoring.Result) map[string]int {
	m := make(map[string]int, len(rs))
	for _, r := range rs {
		m[r.Player] = r.Total
	}
	return m
}

func TestComputeEmpty(t *testing.T) {
	got := scoring.Compute(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("Compute(nil) = %#v, want empty slice", got)
	}
}

func TestBaseFormula(t *testing.T) {
	c := catalog.Counts{
		catalog.One: 4, catalog.Two: 3, catalog.Three: 2, catalog.Five: 1,
		catalog.Domination: 2, catalog.Green: 9,
	}
	// 4 + 6 + 6 + 5 + 10
	if got := scoring.Base(c); got != 31 {
		t.Fatalf("Base = %d, want 31", got)
	}
}

func TestGreenTieBothWin(t *testing.T) {
	rs := scoring.Compute([]ledger.Entry{
		entry("A", catalog.Counts{catalog.Green: 3}),
		entry("B", catalog.Counts{catalog.Green: 3}),
		entry("C", catalog.Counts{catalog.Green: 1}),
	})
	tot := totals(rs)
	if tot["A"] != 5 || tot["B"] != 5 || tot["C"] != 0 {
		t.Fatalf("totals = %v, want A=5 B=5 C=0", tot)
	}
	if rs[2].Player != "C" {
		t.Fatalf("expected C last, got %s", rs[2].Player)
	}
	// equal totals keep ledger order
	if rs[0].Player != "A" || rs[1].Player != "B" {
		t.Fatalf("tie order = %s,%s, want A,B", rs[0].Player, rs[1].Player)
	}
}

func TestAllZeroCategoryHasNoWinner(t *testing.T) {
	rs := scoring.Compute([]ledger.Entry{
		entry("A", catalog.Counts{catalog.One: 2}),
		entry("B", catalog.Counts{catalog.One: 1}),
	})
	for _, r := range rs {
		if r.Bonus != 0 || len(r.Won) != 0 {
			t.Errorf("%s got bonus %d (%v) with all-zero colors", r.Player, r.Bonus, r.Won)
		}
	}
}

func TestNegativeMaxHasNoWinner(t *testing.T) {
	w := scoring.BonusWinners([]ledger.Entry{
		entry("A", catalog.Counts{catalog.Blue: -1}),
		entry("B", catalog.Counts{catalog.Blue: -2}),
	})
	if len(w[catalog.Blue]) != 0 {
		t.Fatalf("Blue winners = %v, want none", w[catalog.Blue])
	}
}

func TestSinglePlayerWinsTouchedCategories(t *testing.T) {
	rs := scoring.Compute([]ledger.Entry{
		entry("D", catalog.Counts{catalog.Domination: 2, catalog.Three: 1, catalog.Yellow: 1}),
	})
	r := rs[0]
	if r.Base != 13 {
		t.Fatalf("Base = %d, want 13", r.Base)
	}
	if r.Bonus != 5 || len(r.Won) != 1 || r.Won[0] != catalog.Yellow {
		t.Fatalf("Bonus = %d won=%v, want 5 [Yellow]", r.Bonus, r.Won)
	}
	if r.Total != 18 {
		t.Fatalf("Total = %d, want 18", r.Total)
	}
}

func TestTotalProperty(t *testing.T) {
	entries := []ledger.Entry{
		entry("A", catalog.Counts{catalog.One: 3, catalog.Five: 2, catalog.Green: 4, catalog.Grey: 2, catalog.Blue: 1}),
		entry("B", catalog.Counts{catalog.Two: 5, catalog.Domination: 1, catalog.Green: 4, catalog.Yellow: 3}),
		entry("C", catalog.Counts{catalog.Three: -1, catalog.Grey: 2, catalog.Yellow: 3, catalog.Blue: 6}),
		entry("E", catalog.Counts{}),
	}
	rs := scoring.Compute(entries)

	for _, r := range rs {
		c := r.Counts
		want := c[catalog.One] + 2*c[catalog.Two] + 3*c[catalog.Three] + 5*c[catalog.Five] + 5*c[catalog.Domination]
		for _, cat := range catalog.BonusCategories() {
			top := 0
			for _, e := range entries {
				if e.Counts[cat] > top {
					top = e.Counts[cat]
				}
			}
			if top > 0 && c[cat] == top {
				want += catalog.BonusPoints
			}
		}
		if r.Total != want {
			t.Errorf("%s Total = %d, want %d", r.Player, r.Total, want)
		}
	}

	for i := 1; i < len(rs); i++ {
		if rs[i-1].Total < rs[i].Total {
			t.Fatalf("leaderboard not non-increasing at %d: %d < %d", i, rs[i-1].Total, rs[i].Total)
		}
	}
}

func TestComputeDoesNotAliasInput(t *testing.T) {
	entries := []ledger.Entry{entry("A", catalog.Counts{catalog.One: 1})}
	rs := scoring.Compute(entries)
	rs[0].Counts[catalog.One] = 50
	if entries[0].Counts[catalog.One] != 1 {
		t.Fatal("Compute result aliases input counts")
	}
}
