package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type DigestConfig struct {
	Schedule              string `mapstructure:"schedule"`
	Location              string `mapstructure:"location"`
	SkipAlreadySent       bool   `mapstructure:"skip_already_sent"`
	HistoryExpirationDays int    `mapstructure:"history_expiration_days"`
}

func (config DigestConfig) validate() error {
	var errs []error

	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err))
	}
	if _, err := time.LoadLocation(config.Location); err != nil {
		errs = append(errs, fmt.Errorf("invalid location %q: %w", config.Location, err))
	}
	if config.SkipAlreadySent && config.HistoryExpirationDays <= 0 {
		errs = append(errs, errors.New("history_expiration_days must be positive"))
	}

	return errors.Join(errs...)
}

func (config DigestConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("digest.schedule", "DIGEST_SCHEDULE")
}
