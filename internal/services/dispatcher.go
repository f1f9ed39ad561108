package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Message is one outbound chat message.
type Message struct {
	Text        string
	Markdown    bool
	LinkPreview bool
}

type Messenger interface {
	Send(ctx context.Context, recipientID int64, message Message) error
}

type DeliveryOptions struct {
	// Limit caps the batch, keeping the first listings. Zero means no cap.
	Limit         int
	NoResultsText string
}

type DeliveryFailure struct {
	Listing entities.Listing
	Err     error
}

type DeliveryReport struct {
	Delivered int
	Failed    int
	Failures  []DeliveryFailure
	// NoResults is set when there was nothing to deliver. It is not a failure.
	NoResults bool
	// Truncated counts listings dropped by the batch cap.
	Truncated         int
	DeliveredListings []entities.Listing
}

func (r DeliveryReport) Attempted() int {
	return r.Delivered + r.Failed
}

func (r DeliveryReport) Summary() string {
	summary := fmt.Sprintf("✅ Sent %d jobs to you!", r.Delivered)
	if r.Failed > 0 {
		summary += fmt.Sprintf(" (%d failed)", r.Failed)
	}
	return summary
}

// Dispatcher delivers listings one message each, pacing messages to the same
// recipient. The pacing is local to a Deliver call so recipients never wait
// on each other.
type Dispatcher struct {
	messenger Messenger
	interval  time.Duration
}

func NewDispatcher(messenger Messenger, interval time.Duration) *Dispatcher {
	return &Dispatcher{messenger: messenger, interval: interval}
}

// Deliver always ends with exactly one terminal message: the summary or the
// no results text.
func (d *Dispatcher) Deliver(ctx context.Context, recipientID int64, listings []entities.Listing,
	options DeliveryOptions) DeliveryReport {

	var report DeliveryReport

	if len(listings) == 0 {
		report.NoResults = true
		d.sendTerminal(ctx, recipientID, Message{Text: options.NoResultsText})
		return report
	}

	batch := listings
	if options.Limit > 0 && len(batch) > options.Limit {
		report.Truncated = len(batch) - options.Limit
		batch = batch[:options.Limit]
	}

	limiter := d.newLimiter()
	for _, listing := range batch {

		if err := listing.ValidateURL(); err != nil {
			d.recordFailure(&report, recipientID, listing, err)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			d.recordFailure(&report, recipientID, listing, err)
			continue
		}

		err := d.messenger.Send(ctx, recipientID, Message{
			Text:        RenderListing(listing),
			Markdown:    true,
			LinkPreview: true,
		})
		if err != nil {
			d.recordFailure(&report, recipientID, listing, err)
			continue
		}

		report.Delivered++
		report.DeliveredListings = append(report.DeliveredListings, listing)
		metrics.DeliveriesCounter.WithLabelValues("delivered").Inc()
	}

	if err := limiter.Wait(ctx); err != nil {
		log.Warnf("pacing before summary to %d interrupted: %v", recipientID, err)
	}
	d.sendTerminal(ctx, recipientID, Message{Text: report.Summary()})

	log.Infof("delivered %d of %d listings to %d, failed %d, truncated %d",
		report.Delivered, len(batch), recipientID, report.Failed, report.Truncated)
	return report
}

// Notify sends a single plain text message, used for validation notices.
func (d *Dispatcher) Notify(ctx context.Context, recipientID int64, text string) error {
	if err := d.messenger.Send(ctx, recipientID, Message{Text: text}); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDelivery).
			Errorf("failed to notify %d: %v", recipientID, err)
		return errors.Wrap(err, "notify")
	}
	return nil
}

func (d *Dispatcher) newLimiter() *rate.Limiter {
	if d.interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d.interval), 1)
}

func (d *Dispatcher) sendTerminal(ctx context.Context, recipientID int64, message Message) {
	if err := d.messenger.Send(ctx, recipientID, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDelivery).
			Errorf("failed to send closing message to %d: %v", recipientID, err)
	}
}

func (d *Dispatcher) recordFailure(report *DeliveryReport, recipientID int64, listing entities.Listing, err error) {
	report.Failed++
	report.Failures = append(report.Failures, DeliveryFailure{Listing: listing, Err: err})
	metrics.DeliveriesCounter.WithLabelValues("failed").Inc()
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeDelivery).
		Warnf("failed to deliver %s to %d: %v", listing.URL, recipientID, err)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// RenderListing formats a listing as a Markdown job alert.
func RenderListing(listing entities.Listing) string {
	return fmt.Sprintf("📢 *New Job Alert!*\n\n*%s*\n%s\n\n[View Job](%s)",
		markdownEscaper.Replace(listing.Title),
		markdownEscaper.Replace(listing.Description),
		listing.URL)
}
