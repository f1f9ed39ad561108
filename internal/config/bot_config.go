package config

import (
	"errors"

	"github.com/spf13/viper"
)

type BotConfig struct {
	Token string `mapstructure:"token"`
}

func (config BotConfig) validate() error {
	if config.Token == "" {
		return errors.New("missing variable: token")
	}
	return nil
}

func (config BotConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("bot.token", "TOKEN")
}
