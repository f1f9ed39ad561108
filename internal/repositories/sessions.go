package repositories

import (
	"context"
	"errors"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Sessions is the sqlite session backend.
type Sessions struct {
	db *gorm.DB
}

func NewSessionsRepository(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (repo *Sessions) Load(ctx context.Context, recipientID int64) (*entities.Session, error) {

	var session entities.Session
	err := repo.db.WithContext(ctx).First(&session, "recipient_id = ?", recipientID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (repo *Sessions) Save(ctx context.Context, session entities.Session) error {
	return repo.db.WithContext(ctx).Save(&session).Error
}

func (repo *Sessions) DigestSubscribers(ctx context.Context) ([]int64, error) {

	var sessions []entities.Session
	if err := repo.db.WithContext(ctx).
		Where("digest_enabled = ?", true).
		Order("recipient_id").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return lo.FilterMap(sessions, func(session entities.Session, _ int) (int64, bool) {
		return session.RecipientID, session.DigestActive()
	}), nil
}
