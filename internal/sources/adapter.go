// Package sources holds the per-site adapters that fetch a job board and
// turn its markup into listings.
package sources

import (
	"context"

	"github.com/maxaizer/job-alert-bot/internal/entities"
)

// Query narrows a fetch for sources that search server-side. Page scrapers
// ignore it.
type Query struct {
	Keywords entities.Keywords
}

func (q Query) cacheKey() string {
	return q.Keywords.String()
}

// Adapter never fails its caller: fetch and extraction problems are logged
// and yield no listings.
type Adapter interface {
	ID() entities.SourceID
	FetchListings(ctx context.Context, query Query) []entities.Listing
}
