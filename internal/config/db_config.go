package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type sessionStorage string

const (
	StorageMemory sessionStorage = "memory"
	StorageSqlite sessionStorage = "sqlite"
	StorageRedis  sessionStorage = "redis"
)

type DBConfig struct {
	SessionStorage   sessionStorage `mapstructure:"session_storage"`
	ConnectionString string         `mapstructure:"connection_string"`
	RedisAddr        string         `mapstructure:"redis_addr"`
	RedisPassword    string         `mapstructure:"redis_password"`
	RedisDB          int            `mapstructure:"redis_db"`
}

func (config DBConfig) validate() error {
	switch config.SessionStorage {
	case StorageMemory:
		return nil
	case StorageSqlite:
		if config.ConnectionString == "" {
			return errors.New("missing variable: db connection string")
		}
		return nil
	case StorageRedis:
		if config.RedisAddr == "" {
			return errors.New("missing variable: redis address")
		}
		return nil
	default:
		return fmt.Errorf("unknown session storage %q", config.SessionStorage)
	}
}

func (config DBConfig) bindEnvironmentVariables() error {
	var errs []error
	bindings := map[string]string{
		"db.session_storage":   "SESSION_STORAGE",
		"db.connection_string": "DB_CONNECTION_STRING",
		"db.redis_addr":        "REDIS_ADDR",
		"db.redis_password":    "REDIS_PASSWORD",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
