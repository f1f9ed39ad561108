package sources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	log "github.com/sirupsen/logrus"
)

// SiteRules describes where a board lists jobs and how to read one card.
type SiteRules struct {
	ID                  entities.SourceID `validate:"required"`
	URL                 string            `validate:"required,url"`
	Origin              string            `validate:"required,url"`
	ItemSelector        string            `validate:"required"`
	TitleSelector       string            `validate:"required"`
	DescriptionSelector string            `validate:"required"`
	// LinkSelector defaults to the title element.
	LinkSelector string
}

type HTMLAdapter struct {
	rules   SiteRules
	origin  *url.URL
	fetcher *Fetcher
}

var rulesValidator = validator.New()

func NewHTMLAdapter(rules SiteRules, fetcher *Fetcher) (*HTMLAdapter, error) {
	if err := rulesValidator.Struct(rules); err != nil {
		return nil, fmt.Errorf("invalid rules for source %q: %w", rules.ID, err)
	}
	if rules.ID == entities.AllSources {
		return nil, fmt.Errorf("source id %q is reserved", rules.ID)
	}

	origin, err := url.Parse(rules.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin for source %q: %w", rules.ID, err)
	}

	return &HTMLAdapter{rules: rules, origin: origin, fetcher: fetcher}, nil
}

func (a *HTMLAdapter) ID() entities.SourceID {
	return a.rules.ID
}

func (a *HTMLAdapter) FetchListings(ctx context.Context, _ Query) []entities.Listing {

	body, err := a.fetcher.Get(ctx, a.rules.URL)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
			Warnf("source %s: fetch failed: %v", a.rules.ID, err)
		return nil
	}

	listings, err := a.Extract(bytes.NewReader(body))
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
			Warnf("source %s: extraction failed: %v", a.rules.ID, err)
		return nil
	}

	if len(listings) == 0 {
		log.Warnf("source %s: no listings matched selector %q, markup may have changed",
			a.rules.ID, a.rules.ItemSelector)
	}
	return listings
}

// Extract reads listings from a page. Cards without a title or a description
// are skipped.
func (a *HTMLAdapter) Extract(page io.Reader) ([]entities.Listing, error) {

	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, err
	}

	var listings []entities.Listing
	skipped := 0

	doc.Find(a.rules.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		titleElement := item.Find(a.rules.TitleSelector).First()
		descriptionElement := item.Find(a.rules.DescriptionSelector).First()

		title := cleanText(titleElement)
		description := cleanText(descriptionElement)
		if title == "" || description == "" {
			skipped++
			return
		}

		linkElement := titleElement
		if a.rules.LinkSelector != "" {
			linkElement = item.Find(a.rules.LinkSelector).First()
		}
		href, _ := linkElement.Attr("href")

		listings = append(listings, entities.NewListing(a.rules.ID, title, description, a.absoluteURL(href)))
	})

	if skipped > 0 {
		log.Debugf("source %s: skipped %d incomplete cards", a.rules.ID, skipped)
	}
	return listings, nil
}

func (a *HTMLAdapter) absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return a.origin.ResolveReference(ref).String()
}

func cleanText(selection *goquery.Selection) string {
	if selection.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(selection.Text()), " ")
}
