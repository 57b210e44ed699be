package config

import (
	"log"
	"log/slog"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// WarnDevDefaults reports settings still running on local development defaults.
func WarnDevDefaults(l *slog.Logger, cfg Config) {
	if string(cfg.JWTAccessSecret) == DefaultSecretKey {
		l.Warn("config_default", "env", "SECRET_KEY", "reason", "using development secret key")
	}
	if cfg.DatabaseURL == DefaultDatabaseURL {
		l.Warn("config_default", "env", "DATABASE_URL", "reason", "using local sqlite database")
	}
}
