package sources

import (
	"context"
	"strings"

	"github.com/maxaizer/job-alert-bot/internal/clients/hh"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	log "github.com/sirupsen/logrus"
)

const HHSourceID entities.SourceID = "hh"

type vacancyClient interface {
	GetVacancies(ctx context.Context, parameters hh.SearchParameters) ([]hh.VacancyPreview, error)
}

// HHAdapter searches the hh.ru vacancies API with the recipient's keywords.
type HHAdapter struct {
	client  vacancyClient
	areaID  string
	perPage int
}

func NewHHAdapter(client vacancyClient, areaID string, perPage int) *HHAdapter {
	return &HHAdapter{client: client, areaID: areaID, perPage: perPage}
}

func (a *HHAdapter) ID() entities.SourceID {
	return HHSourceID
}

func (a *HHAdapter) FetchListings(ctx context.Context, query Query) []entities.Listing {

	if len(query.Keywords) == 0 {
		log.Debugf("source %s: no keywords, skipping search", HHSourceID)
		return nil
	}

	params := hh.SearchParameters{
		Text:                   strings.Join(query.Keywords, " OR "),
		AreaID:                 a.areaID,
		OrderByPublicationTime: true,
		PerPage:                a.perPage,
	}

	previews, err := a.client.GetVacancies(ctx, params)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSource).
			Warnf("source %s: failed to get vacancies: %v", HHSourceID, err)
		return nil
	}

	listings := make([]entities.Listing, 0, len(previews))
	for _, preview := range previews {
		title := strings.TrimSpace(preview.Name)
		description := preview.Snippet.Text()
		if title == "" || description == "" {
			continue
		}
		listings = append(listings, entities.NewListing(HHSourceID, title, description, preview.Url))
	}
	return listings
}
