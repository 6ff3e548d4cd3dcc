package database_test

import (
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/robalobadob/godfather/server/assets"
	"github.com/robalobadob/godfather/server/internal/database"
)

func TestMigrateEmbeddedIsIdempotent(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := database.Migrate(db, assets.Migrations(), "sql"); err != nil {
			t.Fatalf("Migrate pass %d: %v", i, err)
		}
	}

	names, err := fs.Glob(assets.Migrations(), "sql/*.sql")
	if err != nil || len(names) == 0 {
		t.Fatalf("embedded migrations = %v, %v", names, err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(names) {
		t.Fatalf("recorded %d migrations, want %d", n, len(names))
	}
	if _, err := db.Exec(`SELECT game_id, player, total, date FROM game_results LIMIT 1`); err != nil {
		t.Fatalf("game_results missing: %v", err)
	}
}

func TestMigrateAppliesInLexicalOrder(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"m/002_insert.sql": {Data: []byte(`INSERT INTO t(v) VALUES (1);`)},
		"m/001_create.sql": {Data: []byte(`CREATE TABLE t (v INTEGER);`)},
		"m/readme.txt":     {Data: []byte(`ignored`)},
	}
	if err := database.Migrate(db, fsys, "m"); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	var v int
	if err := db.QueryRow(`SELECT v FROM t`).Scan(&v); err != nil || v != 1 {
		t.Fatalf("v = %d err = %v", v, err)
	}
}
