package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pantryhub/pantry-hub/internal/config"
	"github.com/pantryhub/pantry-hub/internal/database"
	"github.com/pantryhub/pantry-hub/internal/server"
)

func main() {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	srv := server.New(db, cfg)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
