package repositories

import (
	"context"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SentListings struct {
	db *gorm.DB
}

func NewSentListingsRepository(db *gorm.DB) *SentListings {
	return &SentListings{db: db}
}

// IsSent also refreshes the record so listings still on the boards are not
// purged while they keep showing up.
func (repo SentListings) IsSent(ctx context.Context, recipientID int64, fingerprint string) (bool, error) {
	res := repo.db.WithContext(ctx).
		Model(&entities.SentListing{}).
		Where("recipient_id = ? AND fingerprint = ?", recipientID, fingerprint).
		Update("last_checked_at", time.Now().UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo SentListings) RecordAsSent(ctx context.Context, recipientID int64, fingerprint string) error {
	now := time.Now().UTC()
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "fingerprint"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_checked_at": now}),
		}).
		Create(&entities.SentListing{
			RecipientID:   recipientID,
			Fingerprint:   fingerprint,
			LastCheckedAt: now,
		}).Error
}

func (repo SentListings) RemoveOld(ctx context.Context, before time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.SentListing{}, "last_checked_at < ?", before)
	return res.RowsAffected, res.Error
}
