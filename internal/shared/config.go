package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	AllowedOrigins []string

	// Storage backend: file | memory | mysql
	StorageBackend string
	DataFile       string
	MySQLDSN       string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	HostawayBase string
	HostawayKey  string
	Workers      int
	ReviewCount  int
	ListingIDs   []int64

	RateGeneralWindow time.Duration
	RateGeneralLimit  int
	RateAPIWindow     time.Duration
	RateAPILimit      int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		AllowedOrigins: splitCSV(env("ALLOWED_ORIGINS", "http://localhost:3000")),

		StorageBackend: env("STORAGE_BACKEND", "file"),
		DataFile:       env("DATA_FILE", "data/records.json"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/flex?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		HostawayBase: env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayKey:  env("HOSTAWAY_API_KEY", ""),
		Workers:      atoi("INGEST_WORKERS", 4),
		ReviewCount:  atoi("INGEST_REVIEW_COUNT", 100),
		ListingIDs:   parseIDs(os.Getenv("INGEST_LISTING_IDS")),

		RateGeneralWindow: time.Duration(atoi("RATE_GENERAL_WINDOW_SECONDS", 900)) * time.Second,
		RateGeneralLimit:  atoi("RATE_GENERAL_LIMIT", 100),
		RateAPIWindow:     time.Duration(atoi("RATE_API_WINDOW_SECONDS", 60)) * time.Second,
		RateAPILimit:      atoi("RATE_API_LIMIT", 30),
	}
	switch c.StorageBackend {
	case "file", "memory", "mysql":
	default:
		log.Warn().Str("backend", c.StorageBackend).Msg("unknown STORAGE_BACKEND, falling back to file")
		c.StorageBackend = "file"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseIDs(s string) []int64 {
	var out []int64
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}
