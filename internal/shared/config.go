package shared

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SteamBase   string
	SteamRPS    int
	Workers     int
	ReviewCount int
	Apps        []string // snapshotter targets
	CacheTTL    time.Duration
	PolicyFile  string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/steam?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		SteamBase:   env("STEAM_BASE_URL", "https://store.steampowered.com"),
		SteamRPS:    atoi("STEAM_RPS", 5),
		Workers:     atoi("SNAPSHOT_WORKERS", 4),
		ReviewCount: atoi("REVIEW_COUNT", 40),
		Apps:        splitList(os.Getenv("SNAPSHOT_APPS")),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		PolicyFile:  env("POLICY_FILE", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// splitList splits a comma- or newline-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
