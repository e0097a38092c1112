// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings.
type Config struct {
	Addr            string
	LogLevel        slog.Level
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CatalogURL     string
	CatalogToken   string
	CatalogTimeout time.Duration

	CacheTTL   time.Duration
	RateLimit  int
	RateWindow time.Duration

	Redis RedisConfig
}

// RedisConfig configures the optional Redis tier used for the shared
// snapshot cache and rate limiting.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TLS      bool
	Prefix   string
}

// Load reads .env from the working directory when present and then the
// process environment.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. Variables already set in the
// environment win over the file. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	var e env
	cfg := Config{
		Addr:            e.str("HTTP_ADDR", ":8080"),
		ReadTimeout:     e.duration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    e.duration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     e.duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		CatalogURL:     e.str("CATALOG_URL", "http://localhost:9001"),
		CatalogToken:   e.str("CATALOG_TOKEN", ""),
		CatalogTimeout: e.duration("CATALOG_TIMEOUT", 2*time.Second),

		CacheTTL:   e.duration("CACHE_TTL", 30*time.Second),
		RateLimit:  e.integer("RATE_LIMIT", 10),
		RateWindow: e.duration("RATE_WINDOW", time.Minute),

		Redis: RedisConfig{
			Enabled:  e.boolean("REDIS_ENABLED", false),
			Addr:     redisAddr(),
			Password: e.str("REDIS_PASSWORD", ""),
			DB:       e.integer("REDIS_DB", 0),
			TLS:      e.boolean("REDIS_TLS", false),
			Prefix:   e.str("REDIS_PREFIX", "packages"),
		},
	}
	cfg.LogLevel = e.level("LOG_LEVEL", slog.LevelInfo)

	if err := errors.Join(e.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CatalogURL) == "" {
		errs = append(errs, errors.New("CATALOG_URL must not be empty"))
	}
	if c.CatalogTimeout <= 0 {
		errs = append(errs, errors.New("CATALOG_TIMEOUT must be positive"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("RATE_LIMIT must not be negative"))
	}
	if c.RateWindow <= 0 {
		errs = append(errs, errors.New("RATE_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// redisAddr prefers REDIS_HOST and REDIS_PORT over REDIS_ADDR.
func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// env reads typed variables and collects parse errors.
type env struct {
	errs []error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return def
	}
	return n
}

func (e *env) boolean(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (e *env) level(key string, def slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: invalid log level %q", key, v))
		return def
	}
	return l
}
