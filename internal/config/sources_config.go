package config

import (
	"errors"
	"fmt"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// SiteConfig declares an extra HTML job board with its selector rules.
type SiteConfig struct {
	ID                  string `mapstructure:"id"`
	URL                 string `mapstructure:"url"`
	Origin              string `mapstructure:"origin"`
	ItemSelector        string `mapstructure:"item_selector"`
	TitleSelector       string `mapstructure:"title_selector"`
	DescriptionSelector string `mapstructure:"description_selector"`
	LinkSelector        string `mapstructure:"link_selector"`
}

type SourcesConfig struct {
	Enabled                []string      `mapstructure:"enabled"`
	FetchTimeout           time.Duration `mapstructure:"fetch_timeout"`
	UserAgent              string        `mapstructure:"user_agent"`
	CacheTTL               time.Duration `mapstructure:"cache_ttl"`
	HhMaxRequestsPerSecond float32       `mapstructure:"hh_max_requests_per_second"`
	HhAreaID               string        `mapstructure:"hh_area_id"`
	HhPerPage              int           `mapstructure:"hh_per_page"`
	Sites                  []SiteConfig  `mapstructure:"sites"`
}

func (config SourcesConfig) validate() error {
	var errs []error

	if config.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch_timeout must be positive"))
	}
	if config.UserAgent == "" {
		errs = append(errs, errors.New("missing variable: user_agent"))
	}
	if config.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	if config.HhPerPage < 1 || config.HhPerPage > 100 {
		errs = append(errs, errors.New("hh_per_page must be between 1 and 100"))
	}
	for i, site := range config.Sites {
		if site.ID == "" {
			errs = append(errs, fmt.Errorf("sites[%d]: missing id", i))
		}
	}

	return errors.Join(errs...)
}
