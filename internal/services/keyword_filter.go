package services

import (
	"strings"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/samber/lo"
)

// FilterByKeywords keeps the listings matching any keyword, in input order.
func FilterByKeywords(listings []entities.Listing, keywords entities.Keywords) []entities.Listing {
	lowered := lo.Map(keywords, func(keyword string, _ int) string {
		return strings.ToLower(keyword)
	})
	return lo.Filter(listings, func(listing entities.Listing, _ int) bool {
		return matchesLowered(listing, lowered)
	})
}

// MatchesKeywords reports whether a keyword is a case-insensitive substring
// of the title immediately followed by the description. A keyword may span
// the boundary between the two.
func MatchesKeywords(listing entities.Listing, keywords entities.Keywords) bool {
	return len(FilterByKeywords([]entities.Listing{listing}, keywords)) == 1
}

func matchesLowered(listing entities.Listing, keywords []string) bool {
	text := strings.ToLower(listing.Title + listing.Description)
	return lo.SomeBy(keywords, func(keyword string) bool {
		return strings.Contains(text, keyword)
	})
}
