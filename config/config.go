/*
Package config reads server settings from the environment and the command
line.

SOURCES (later wins):
  1. Built-in defaults
  2. Environment variables, optionally from a .env file (LoadDotEnv)
  3. Command-line flags

VARIABLES:
  PORT              HTTP port (default 8080)           flag -port
  DATABASE_PATH     SQLite path or ":memory:"          flag -db
                    (default commissions.db)
  APP_ENV           "development" or "production"      flag -env
                    (default production)
  CORS_ORIGINS      Comma-separated allowed origins    flag -cors
  SHUTDOWN_TIMEOUT  Graceful shutdown wait (default 30s)
*/
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds server settings.
type Config struct {
	Port            int
	DatabasePath    string
	Env             string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadDotEnv loads variables from the given files (".env" when none) into
// the process environment. Missing files are ignored; variables already set
// are kept.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load builds a Config from the environment and args (without the program
// name).
func Load(args []string) (Config, error) {
	port, err := envInt("PORT", 8080)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := envDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{ShutdownTimeout: shutdown}
	var cors string

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", port, "HTTP server port")
	fs.StringVar(&cfg.DatabasePath, "db", envString("DATABASE_PATH", "commissions.db"), "SQLite database path")
	fs.StringVar(&cfg.Env, "env", envString("APP_ENV", EnvProduction), "Environment (development|production)")
	fs.StringVar(&cors, "cors", envString("CORS_ORIGINS", ""), "Comma-separated allowed CORS origins")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.CORSOrigins = splitList(cors)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("database path is required")
	}
	switch cfg.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q", cfg.Env)
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
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
