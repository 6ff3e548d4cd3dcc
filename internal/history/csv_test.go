package history_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/robalobadob/godfather/server/internal/catalog"
	"github.com/robalobadob/godfather/server/internal/history"
)

func TestReadCSVHeaderKeyed(t *testing.T) {
	in := "GameID,Player,Total,Green\n" +
		"3,Vito,25,4\n" +
		"\n" +
		"3,Sonny,,\n"
	rows, err := history.ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	v := rows[0]
	if v.Player != "Vito" || v.GameID != 3 || v.Total != 25 || v.Counts[catalog.Green] != 4 || v.Date != "" {
		t.Errorf("row 0 = %+v", v)
	}
	if v.Counts[catalog.Domination] != 0 {
		t.Errorf("absent column should default to 0, got %d", v.Counts[catalog.Domination])
	}
	if rows[1].Total != 0 {
		t.Errorf("blank Total should read as 0, got %d", rows[1].Total)
	}
}

func TestReadCSVIgnoresByteOrderMark(t *testing.T) {
	rows, err := history.ReadCSV(strings.NewReader("\ufeffPlayer,Total,GameID\nVito,1,1\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 1 || rows[0].Player != "Vito" || rows[0].Total != 1 || rows[0].GameID != 1 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestReadCSVRejectsNonInteger(t *testing.T) {
	_, err := history.ReadCSV(strings.NewReader("Player,$5\nVito,lots\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2 error", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := history.ReadCSV(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Fatalf("ReadCSV(\"\") = %v, %v", rows, err)
	}
}

func TestWriteCSVCanonicalOrder(t *testing.T) {
	c := catalog.NewCounts()
	c[catalog.One] = 1
	c[catalog.Blue] = 2
	c[catalog.Domination] = 3
	var buf bytes.Buffer
	err := history.WriteCSV(&buf, []history.Row{{Player: "Kay", Counts: c, Total: 21, GameID: 4, Date: "2025-01-02T03:04:05Z"}})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "Player,$1,$2,$3,$5,Green,Yellow,Grey,Blue,Domination,Total,GameID,Date\n" +
		"Kay,1,0,0,0,0,0,0,2,3,21,4,2025-01-02T03:04:05Z\n"
	if buf.String() != want {
		t.Fatalf("WriteCSV =\n%s\nwant\n%s", buf.String(), want)
	}

	back, err := history.ReadCSV(&buf)
	if err != nil || len(back) != 1 || back[0].Counts[catalog.Domination] != 3 {
		t.Fatalf("read back = %+v, %v", back, err)
	}
}

// brokenWriter fails every write and counts attempts.
type brokenWriter struct{ calls int }

func (b *brokenWriter) Write(p []byte) (int, error) {
	b.calls++
	return 0, errors.New("disk full")
}

func TestWriteCSVStopsAtFirstFailure(t *testing.T) {
	rows := make([]history.Row, 500)
	for i := range rows {
		rows[i] = history.Row{Player: fmt.Sprintf("player-%03d", i), Counts: catalog.NewCounts(), GameID: 1}
	}
	w := &brokenWriter{}
	if err := history.WriteCSV(w, rows); err == nil {
		t.Fatal("expected an error from a failing writer")
	}
	if w.calls != 1 {
		t.Fatalf("writer called %d times after failing, want 1", w.calls)
	}
}
