package config

import (
	"errors"
	"time"
)

type DeliveryConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	InteractiveLimit int           `mapstructure:"interactive_limit"`
	DigestLimit      int           `mapstructure:"digest_limit"`
}

func (config DeliveryConfig) validate() error {
	var errs []error

	if config.Interval < 0 {
		errs = append(errs, errors.New("interval must not be negative"))
	}
	if config.InteractiveLimit <= 0 {
		errs = append(errs, errors.New("interactive_limit must be positive"))
	}
	if config.DigestLimit <= 0 {
		errs = append(errs, errors.New("digest_limit must be positive"))
	}

	return errors.Join(errs...)
}
