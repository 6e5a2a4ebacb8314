// Package storage provides the persisted key-value slots the store mirrors
// its state to.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Storage is a synchronous key-value slot store.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Config selects and configures a driver.
type Config struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
	RedisPrefix string
}

// Open returns the storage for cfg.Driver.
func Open(cfg Config) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverMemory:
		return NewMemoryStorage(), nil
	case DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		return NewRedisStorage(cfg.RedisAddr, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
