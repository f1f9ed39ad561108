package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/maxaizer/job-alert-bot/internal/config"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/maxaizer/job-alert-bot/internal/sources"
	log "github.com/sirupsen/logrus"
)

type PassKind string

const (
	PassInteractive PassKind = "interactive"
	PassDigest      PassKind = "digest"
)

const (
	NoMatchesText     = "❌ No matching jobs found."
	NoDigestMatchText = "No new jobs today."
)

type PassRequest struct {
	RecipientID int64
	Sources     []entities.SourceID
	Keywords    entities.Keywords
	Kind        PassKind
}

type listingAggregator interface {
	Aggregate(ctx context.Context, selected []entities.SourceID, query sources.Query) []entities.Listing
}

type listingDispatcher interface {
	Deliver(ctx context.Context, recipientID int64, listings []entities.Listing, options DeliveryOptions) DeliveryReport
	Notify(ctx context.Context, recipientID int64, text string) error
}

// SentHistory remembers which listings a recipient already got.
type SentHistory interface {
	IsSent(ctx context.Context, recipientID int64, fingerprint string) (bool, error)
	RecordAsSent(ctx context.Context, recipientID int64, fingerprint string) error
}

// Pipeline is one pass: aggregate, filter by keywords, dispatch.
type Pipeline struct {
	aggregator listingAggregator
	dispatcher listingDispatcher
	history    SentHistory
	delivery   config.DeliveryConfig
}

func NewPipeline(aggregator listingAggregator, dispatcher listingDispatcher, delivery config.DeliveryConfig) *Pipeline {
	return &Pipeline{aggregator: aggregator, dispatcher: dispatcher, delivery: delivery}
}

// SetHistory enables skipping listings already sent by earlier digests.
func (p *Pipeline) SetHistory(history SentHistory) {
	p.history = history
}

// Search aggregates and filters without delivering anything.
func (p *Pipeline) Search(ctx context.Context, selected []entities.SourceID, keywords entities.Keywords) []entities.Listing {
	listings := p.aggregator.Aggregate(ctx, selected, sources.Query{Keywords: keywords})
	return FilterByKeywords(listings, keywords)
}

func (p *Pipeline) Run(ctx context.Context, request PassRequest) DeliveryReport {

	start := time.Now()
	passLog := log.WithFields(log.Fields{
		"pass_id":   uuid.NewString(),
		"recipient": request.RecipientID,
		"kind":      request.Kind,
	})
	passLog.Infof("pass started, sources: %v, keywords: %s", request.Sources, request.Keywords)

	matched := p.Search(ctx, request.Sources, request.Keywords)
	passLog.Infof("%d listings matched", len(matched))

	useHistory := p.history != nil && request.Kind == PassDigest
	if useHistory {
		matched = p.skipAlreadySent(ctx, passLog, request.RecipientID, matched)
	}

	report := p.dispatcher.Deliver(ctx, request.RecipientID, matched, p.optionsFor(request.Kind))

	if useHistory {
		p.recordSent(ctx, passLog, request.RecipientID, report.DeliveredListings)
	}

	metrics.PassDuration.WithLabelValues(string(request.Kind)).Observe(time.Since(start).Seconds())
	passLog.Infof("pass ended after %v, delivered: %d, failed: %d, no results: %v",
		time.Since(start), report.Delivered, report.Failed, report.NoResults)
	return report
}

func (p *Pipeline) Notify(ctx context.Context, recipientID int64, text string) error {
	return p.dispatcher.Notify(ctx, recipientID, text)
}

func (p *Pipeline) optionsFor(kind PassKind) DeliveryOptions {
	if kind == PassDigest {
		return DeliveryOptions{Limit: p.delivery.DigestLimit, NoResultsText: NoDigestMatchText}
	}
	return DeliveryOptions{Limit: p.delivery.InteractiveLimit, NoResultsText: NoMatchesText}
}

func (p *Pipeline) skipAlreadySent(ctx context.Context, passLog *log.Entry, recipientID int64,
	listings []entities.Listing) []entities.Listing {

	fresh := make([]entities.Listing, 0, len(listings))
	for _, listing := range listings {
		sent, err := p.history.IsSent(ctx, recipientID, listing.Fingerprint)
		if err != nil {
			passLog.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to check sent history: %v", err)
		}
		if !sent {
			fresh = append(fresh, listing)
		}
	}
	if skipped := len(listings) - len(fresh); skipped > 0 {
		passLog.Infof("skipped %d listings sent earlier", skipped)
	}
	return fresh
}

func (p *Pipeline) recordSent(ctx context.Context, passLog *log.Entry, recipientID int64, delivered []entities.Listing) {
	for _, listing := range delivered {
		if err := p.history.RecordAsSent(ctx, recipientID, listing.Fingerprint); err != nil {
			passLog.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to record listing as sent: %v", err)
		}
	}
}
