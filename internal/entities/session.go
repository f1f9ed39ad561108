package entities

import (
	"slices"
	"time"
)

// Session is the per-recipient state. Only the session store mutates it.
type Session struct {
	RecipientID     int64      `gorm:"primaryKey;autoIncrement:false" json:"recipientID"`
	SelectedSources []SourceID `gorm:"serializer:json" json:"selectedSources"`
	SavedKeywords   Keywords   `gorm:"serializer:json" json:"savedKeywords"`
	DigestEnabled   bool       `gorm:"index" json:"digestEnabled"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func NewSession(recipientID int64) Session {
	return Session{RecipientID: recipientID}
}

func (s Session) HasSources() bool {
	return len(s.SelectedSources) > 0
}

func (s Session) HasKeywords() bool {
	return len(s.SavedKeywords) > 0
}

// DigestActive reports whether the recipient should have a scheduled digest.
func (s Session) DigestActive() bool {
	return s.DigestEnabled && s.HasKeywords()
}

func (s Session) Clone() Session {
	s.SelectedSources = slices.Clone(s.SelectedSources)
	s.SavedKeywords = slices.Clone(s.SavedKeywords)
	return s
}
