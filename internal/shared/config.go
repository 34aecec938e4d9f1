package shared

import (
	crand "crypto/rand"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration

	BackendURL         string
	BackendTimeout     time.Duration
	BackendRPS         int
	BackendMaxInFlight int
	BackendReadRetries int

	SessionStore  string // memory|redis|mysql
	SessionTTL    time.Duration
	SessionSecret []byte
	CookieSecure  bool

	RedisAddr string
	RedisDB   int
	RedisPass string
	MySQLDSN  string

	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	secs := func(k string, def int) time.Duration { return time.Duration(atoi(k, def)) * time.Second }

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RequestTimeout: secs("HTTP_TIMEOUT_SECONDS", 60),

		BackendURL:         env("BACKEND_URL", "http://localhost:8000"),
		BackendTimeout:     secs("BACKEND_TIMEOUT_SECONDS", 15),
		BackendRPS:         atoi("BACKEND_RPS", 20),
		BackendMaxInFlight: atoi("BACKEND_MAX_INFLIGHT", 8),
		BackendReadRetries: atoi("BACKEND_READ_RETRIES", 0),

		SessionStore: strings.ToLower(env("SESSION_STORE", "memory")),
		SessionTTL:   secs("SESSION_TTL_SECONDS", 3600),
		CookieSecure: env("COOKIE_SECURE", "false") == "true",

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		MySQLDSN:  env("MYSQL_DSN", "root:root@tcp(localhost:3306)/luxstay?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		CORSOrigins: splitList(env("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
	}

	if s := os.Getenv("SESSION_SECRET"); s != "" {
		c.SessionSecret = []byte(s)
	} else {
		log.Warn().Msg("SESSION_SECRET is empty; sessions will not survive a restart")
		c.SessionSecret = make([]byte, 32)
		if _, err := crand.Read(c.SessionSecret); err != nil {
			log.Fatal().Err(err).Msg("generate session secret")
		}
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
