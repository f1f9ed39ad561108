package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
)

type SourceID string

// AllSources selects every registered source.
const AllSources SourceID = "all"

var ErrInvalidURL = errors.New("listing url is empty or malformed")

type Listing struct {
	SourceID    SourceID
	Title       string
	Description string
	URL         string
	Fingerprint string
}

func NewListing(source SourceID, title, description, link string) Listing {
	return Listing{
		SourceID:    source,
		Title:       title,
		Description: description,
		URL:         link,
		Fingerprint: Fingerprint(source, title, description, link),
	}
}

// Fingerprint derives the dedup key from source and url, falling back to
// title and description when the url is unusable.
func Fingerprint(source SourceID, title, description, link string) string {
	var parts []string
	if IsValidURL(link) {
		parts = []string{string(source), "url", link}
	} else {
		parts = []string{string(source), "text", title, description}
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

func IsValidURL(link string) bool {
	if strings.TrimSpace(link) == "" {
		return false
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func (l Listing) ValidateURL() error {
	if !IsValidURL(l.URL) {
		return ErrInvalidURL
	}
	return nil
}
