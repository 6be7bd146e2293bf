package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Backends selectable through DATA_BACKEND.
const (
	BackendFile    = "file"
	BackendMySQL   = "mysql"
	BackendContent = "content"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	CORSOrigins []string

	Backend  string
	DataFile string
	MySQLDSN string

	RedisAddr string
	RedisPass string
	RedisDB   int
	CacheTTL  time.Duration

	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityToken      string
	SanityUseCDN     bool
	SanityRPS        int

	MigrateWorkers int
}

// Load reads the process environment, first merging any .env files found.
// Variables already set in the environment win over file values.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", f).Msg("env file not loaded")
		}
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		CORSOrigins: list(env("CORS_ORIGINS", "*")),

		Backend:  strings.ToLower(env("DATA_BACKEND", BackendFile)),
		DataFile: env("DATA_FILE", "data/restaurants.json"),
		MySQLDSN: env("MYSQL_DSN", "root:root@tcp(localhost:3306)/foodblog?parseTime=true&charset=utf8mb4&loc=UTC"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,

		SanityProjectID:  os.Getenv("SANITY_PROJECT_ID"),
		SanityDataset:    env("SANITY_DATASET", "production"),
		SanityAPIVersion: env("SANITY_API_VERSION", "2024-01-01"),
		SanityToken:      os.Getenv("SANITY_API_TOKEN"),
		SanityUseCDN:     boolean("SANITY_USE_CDN", true),
		SanityRPS:        atoi("SANITY_RPS", 5),

		MigrateWorkers: atoi("MIGRATE_WORKERS", 4),
	}
	if c.Backend == BackendContent && c.SanityProjectID == "" {
		log.Warn().Msg("SANITY_PROJECT_ID is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// list splits a comma separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
