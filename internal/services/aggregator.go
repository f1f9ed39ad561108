package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/maxaizer/job-alert-bot/internal/sources"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type sourceResolver interface {
	Resolve(selected []entities.SourceID) ([]sources.Adapter, []entities.SourceID)
}

// Aggregator runs the selected sources concurrently and merges their
// listings in the order the sources were selected.
type Aggregator struct {
	sources sourceResolver
}

func NewAggregator(sources sourceResolver) *Aggregator {
	return &Aggregator{sources: sources}
}

// Aggregate never fails: unknown ids and failing sources only shrink the
// result. The output holds no two listings with the same fingerprint.
func (a *Aggregator) Aggregate(ctx context.Context, selected []entities.SourceID, query sources.Query) []entities.Listing {

	adapters, unknown := a.sources.Resolve(selected)
	for _, id := range unknown {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
			Warnf("unknown source %q skipped", id)
	}
	if len(adapters) == 0 {
		return []entities.Listing{}
	}

	results := make([][]entities.Listing, len(adapters))
	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter sources.Adapter) {
			defer wg.Done()
			results[i] = fetchSafely(ctx, adapter, query)
		}(i, adapter)
	}
	wg.Wait()

	merged := lo.Flatten(results)
	unique := lo.UniqBy(merged, func(listing entities.Listing) string {
		return listing.Fingerprint
	})

	if dropped := len(merged) - len(unique); dropped > 0 {
		log.Debugf("dropped %d duplicate listings", dropped)
	}
	return unique
}

func fetchSafely(ctx context.Context, adapter sources.Adapter, query sources.Query) (listings []entities.Listing) {
	id := string(adapter.ID())

	defer func() {
		if r := recover(); r != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
				Errorf("source %s panicked: %v", id, fmt.Sprint(r))
			listings = nil
		}
	}()

	start := time.Now()
	listings = adapter.FetchListings(ctx, query)
	metrics.SourceFetchDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())
	metrics.SourceListingsCounter.WithLabelValues(id).Add(float64(len(listings)))

	log.Debugf("source %s returned %d listings in %v", id, len(listings), time.Since(start))
	return listings
}
