package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/godfather/server/internal/auth"
	"github.com/robalobadob/godfather/server/internal/httpserver"
	"github.com/robalobadob/godfather/server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	hist, closeHistory, err := openHistory(getEnv("HISTORY_BACKEND", "sqlite"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open game history")
	}
	defer closeHistory()

	keeper := auth.New(auth.FromEnv())
	if !keeper.Required() {
		log.Warn().Msg("KEEPER_PASSWORD_HASH not set; anyone can submit games")
	}

	srv := httpserver.New(store.NewMemoryStore(), hist, keeper)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting godfather score keeper")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
