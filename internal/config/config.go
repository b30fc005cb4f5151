package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	TokenTTL  time.Duration

	// DefaultTimezone is used for calendar-day bucketing when a request
	// does not send ?tz=.
	DefaultTimezone string

	PromptsFile string

	QuoteTimeout time.Duration

	WorkerInterval time.Duration

	AnthropicAPIKey string
	AnthropicModel  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		TokenTTL:             getduration("TOKEN_TTL", 7*24*time.Hour),
		DefaultTimezone:      getenv("DEFAULT_TIMEZONE", "UTC"),
		PromptsFile:          getenv("PROMPTS_FILE", ""),
		QuoteTimeout:         getduration("QUOTE_TIMEOUT", 3*time.Second),
		WorkerInterval:       getduration("WORKER_INTERVAL", 800*time.Millisecond),
		AnthropicAPIKey:      getenv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:       getenv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""))

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

// Location resolves DefaultTimezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// getduration accepts Go durations ("3s") or plain seconds ("3").
func getduration(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
