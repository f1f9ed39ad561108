package sources

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/maxaizer/job-alert-bot/internal/clients/hh"
	"github.com/maxaizer/job-alert-bot/internal/config"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	log "github.com/sirupsen/logrus"
)

// Setup builds the registry from built-in boards, hh.ru and configured sites.
// An empty enabled list keeps everything.
func Setup(cfg config.SourcesConfig) (*Registry, error) {

	fetcher := NewFetcher(cfg.FetchTimeout, cfg.UserAgent)

	rules := BuiltinSites()
	for _, site := range cfg.Sites {
		rules = append(rules, SiteRules{
			ID:                  entities.SourceID(site.ID),
			URL:                 site.URL,
			Origin:              site.Origin,
			ItemSelector:        site.ItemSelector,
			TitleSelector:       site.TitleSelector,
			DescriptionSelector: site.DescriptionSelector,
			LinkSelector:        site.LinkSelector,
		})
	}

	var adapters []Adapter
	for _, rule := range rules {
		adapter, err := NewHTMLAdapter(rule, fetcher)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	hhClient := hh.NewClient(cfg.UserAgent)
	hhClient.SetHTTPClient(&http.Client{Timeout: cfg.FetchTimeout})
	if cfg.HhMaxRequestsPerSecond > 0 {
		hhClient.SetRateLimit(cfg.HhMaxRequestsPerSecond)
	}
	adapters = append(adapters, NewHHAdapter(hhClient, cfg.HhAreaID, cfg.HhPerPage))

	if len(cfg.Enabled) > 0 {
		var enabled []Adapter
		for _, adapter := range adapters {
			if slices.Contains(cfg.Enabled, string(adapter.ID())) {
				enabled = append(enabled, adapter)
			}
		}
		if len(enabled) == 0 {
			return nil, fmt.Errorf("none of the enabled sources %v exist", cfg.Enabled)
		}
		adapters = enabled
	}

	if cfg.CacheTTL > 0 {
		for i, adapter := range adapters {
			adapters[i] = NewCachedAdapter(adapter, cfg.CacheTTL)
		}
	}

	registry, err := NewRegistry(adapters...)
	if err != nil {
		return nil, err
	}
	log.Infof("sources registered: %v", registry.IDs())
	return registry, nil
}
