// Command initdb creates the schema and the administrator account.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Skotchmaster/restaurant/internal/config"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	pkgconfig "github.com/Skotchmaster/restaurant/pkg/config"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "initdb")
	slog.SetDefault(logger)

	username := pkgconfig.EnvDefault("ADMIN_USERNAME", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	pkgconfig.MustNonEmpty(password, "ADMIN_PASSWORD")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	logger.Info("schema_migrated")

	auth := &service.AuthService{Repo: repo.New(db)}
	created, err := auth.EnsureAdmin(ctx, username, password)
	if err != nil {
		logger.Error("admin_seed_error", "username", username, "error", err)
		os.Exit(1)
	}
	if created {
		logger.Info("admin_created", "username", username)
	} else {
		logger.Info("admin_exists", "username", username)
	}
}
