package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "3000"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	namespace = "TEAMTASKS"
)

// Env holds tuning knobs that are not exposed as CLI flags.
type Env struct {
	DBMaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns         int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadDotEnv populates the process environment from .env files.
// Variables already set take precedence; a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadEnv reads TEAMTASKS_* variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if env.DBMinConns > env.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", env.DBMinConns, env.DBMaxConns)
	}
	return &env, nil
}
