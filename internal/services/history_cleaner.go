package services

import (
	"context"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type HistoryCleanupRepository interface {
	RemoveOld(ctx context.Context, before time.Time) (int64, error)
}

// HistoryCleaner purges the sent-listings history every night.
type HistoryCleaner struct {
	history              HistoryCleanupRepository
	cron                 *cron.Cron
	expirationTimeInDays int
}

func NewHistoryCleaner(history HistoryCleanupRepository, expirationInDays int) (*HistoryCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	hc := &HistoryCleaner{
		history:              history,
		cron:                 cron.New(cron.WithLocation(time.UTC)),
		expirationTimeInDays: expirationInDays,
	}

	_, err := hc.cron.AddFunc("0 0 * * *", func() { hc.Clean(context.Background()) })
	if err != nil {
		return nil, err
	}
	return hc, nil
}

func (hc *HistoryCleaner) Start() {
	hc.cron.Start()
	log.Infof("history cleaner started, expiration in days: %d", hc.expirationTimeInDays)
}

func (hc *HistoryCleaner) Stop() {
	<-hc.cron.Stop().Done()
}

func (hc *HistoryCleaner) Clean(ctx context.Context) {
	expirationTime := time.Now().UTC().AddDate(0, 0, -hc.expirationTimeInDays)
	rowsAffected, err := hc.history.RemoveOld(ctx, expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to clean sent history: %v", err)
	} else {
		log.Infof("sent history cleaned, removed rows: %v", rowsAffected)
	}
}
