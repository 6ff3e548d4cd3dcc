// history.go
//
// Selects the game history backend from HISTORY_BACKEND:
//   - sqlite (default): DB_PATH, migrated from the embedded assets/sql files.
//   - csv:              HISTORY_CSV, a spreadsheet-style file.
//   - memory:           nothing persisted; for local experiments.

package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/godfather/server/assets"
	"github.com/robalobadob/godfather/server/internal/database"
	"github.com/robalobadob/godfather/server/internal/history"
)

// openHistory returns the store and a cleanup func to run on shutdown.
func openHistory(backend string) (history.Store, func(), error) {
	noop := func() {}
	switch backend {
	case "sqlite":
		path := getEnv("DB_PATH", "./data/godfather.db")
		db, err := database.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open %s: %w", path, err)
		}
		if err := database.Migrate(db, assets.Migrations(), "sql"); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Str("backend", backend).Str("path", path).Msg("game history ready")
		return history.NewSQLStore(db), func() { _ = db.Close() }, nil
	case "csv":
		path := getEnv("HISTORY_CSV", "./data/godfather_game_history.csv")
		s, err := history.NewSheetStore(path)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("backend", backend).Str("path", path).Msg("game history ready")
		return s, noop, nil
	case "memory":
		log.Warn().Str("backend", backend).Msg("game history is not persisted")
		return history.NewMemoryStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown HISTORY_BACKEND %q (want sqlite, csv or memory)", backend)
	}
}
