package config

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type BaseEnv struct {
	Env             string        `envconfig:"ENV" default:"local"`
	HTTPHost        string        `envconfig:"HTTP_HOST" default:""`
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	IdempotencyTTL  time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type StorageEnv struct {
	Driver      string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./data/taskboard.db"`
}

type Env struct {
	BaseEnv
	StorageEnv
}

const namespace = "TASKBOARD"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Env) Validate() error {
	switch e.Driver {
	case DriverSQLite:
		if e.SQLitePath == "" {
			return fmt.Errorf("%s_SQLITE_PATH must be set for the sqlite driver", namespace)
		}
	case DriverPostgres:
		if e.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL must be set for the postgres driver", namespace)
		}
	default:
		return fmt.Errorf("unknown storage driver %q: want %s or %s", e.Driver, DriverSQLite, DriverPostgres)
	}
	return nil
}

func (e *BaseEnv) Addr() string {
	return net.JoinHostPort(e.HTTPHost, e.HTTPPort)
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
