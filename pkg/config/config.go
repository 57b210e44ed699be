package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultDatabaseURL = "file:restaurant.db?_pragma=foreign_keys(1)"
	DefaultSecretKey   = "dev-secret-key-change-me"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	// IANA zone used to read the restaurant clock. Empty means time.Local.
	Timezone string

	ReservationPhone string

	CSRFEnabled bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string
}

func Load() Config {
	secret := EnvDefault("SECRET_KEY", DefaultSecretKey)

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "restaurant"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: EnvDefault("DATABASE_URL", DefaultDatabaseURL),

		JWTAccessSecret:  []byte(secret),
		JWTRefreshSecret: []byte(EnvDefault("REFRESH_SECRET", secret+"-refresh")),

		Timezone: os.Getenv("TIMEZONE"),

		ReservationPhone: EnvDefault("RESERVATION_PHONE", "+1 (555) 123-4567"),

		CSRFEnabled: EnvBoolDefault("CSRF_ENABLED", true),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		UploadDir: EnvDefault("UPLOAD_DIR", "static/uploads"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    EnvDefault("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    EnvBoolDefault("MINIO_USE_SSL", false),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "menu_items"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
