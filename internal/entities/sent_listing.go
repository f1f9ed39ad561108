package entities

import "time"

// SentListing remembers that a listing was delivered to a recipient.
type SentListing struct {
	ID            int
	RecipientID   int64
	Fingerprint   string
	LastCheckedAt time.Time
	CreatedAt     time.Time
}
