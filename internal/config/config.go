package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Bot      BotConfig      `mapstructure:"bot"`
	DB       DBConfig       `mapstructure:"db"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

const defaultConfigFile = "./configs/config.yaml"

// Get loads the full config for serving the bot.
func Get() *Config {
	return get(true)
}

// GetOffline loads the config for commands that never reach telegram, the
// bot token is not required.
func GetOffline() *Config {
	return get(false)
}

func get(requireBot bool) *Config {

	configFile := defaultConfigFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile, requireBot)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string, requireBot bool) (*Config, error) {

	viper.Reset()
	viper.SetConfigFile(file)
	viper.AutomaticEnv()
	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate(requireBot)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("logger.log_level", string(LevelInfo))
	viper.SetDefault("logger.app_name", "job-alert-bot")
	viper.SetDefault("logger.output_file", "./logs/bot.log")

	viper.SetDefault("db.session_storage", string(StorageMemory))

	viper.SetDefault("sources.fetch_timeout", 10*time.Second)
	viper.SetDefault("sources.user_agent", DefaultUserAgent)
	viper.SetDefault("sources.cache_ttl", 5*time.Minute)
	viper.SetDefault("sources.hh_max_requests_per_second", 5)
	viper.SetDefault("sources.hh_per_page", 50)

	viper.SetDefault("delivery.interval", 2*time.Second)
	viper.SetDefault("delivery.interactive_limit", 5)
	viper.SetDefault("delivery.digest_limit", 20)

	viper.SetDefault("digest.schedule", "0 9 * * *")
	viper.SetDefault("digest.location", "UTC")
	viper.SetDefault("digest.history_expiration_days", 30)

	viper.SetDefault("metrics.address", ":8080")
}

func bindEnvironmentVariables() error {
	var errs []error

	bot, db, logger, digest, metrics := BotConfig{}, DBConfig{}, LoggerConfig{}, DigestConfig{}, MetricsConfig{}

	if err := bot.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := digest.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DigestConfig: %w", err))
	}

	if err := metrics.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate(requireBot bool) error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if requireBot {
		if err := config.Bot.validate(); err != nil {
			errs = append(errs, fmt.Errorf("BotConfig: %w", err))
		}
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Sources.validate(); err != nil {
		errs = append(errs, fmt.Errorf("SourcesConfig: %w", err))
	}

	if err := config.Delivery.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DeliveryConfig: %w", err))
	}

	if err := config.Digest.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DigestConfig: %w", err))
	}

	if config.Digest.SkipAlreadySent && config.DB.ConnectionString == "" {
		errs = append(errs, errors.New("digest.skip_already_sent requires db.connection_string"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
