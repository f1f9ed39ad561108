package entities

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

const KeywordsDelimiter = "-"

var ErrEmptyKeywords = errors.New("keyword set is empty")

// Keywords is an ordered set of case-insensitive substrings.
type Keywords []string

// ParseKeywords splits "python - scraping - API" into trimmed terms. Blank terms
// are dropped and repeated terms (ignoring case) keep their first position.
func ParseKeywords(input string) (Keywords, error) {
	terms := lo.Map(strings.Split(input, KeywordsDelimiter), func(term string, _ int) string {
		return strings.Join(strings.Fields(term), " ")
	})
	terms = lo.Compact(terms)
	terms = lo.UniqBy(terms, strings.ToLower)

	if len(terms) == 0 {
		return nil, ErrEmptyKeywords
	}
	return terms, nil
}

func (k Keywords) Validate() error {
	if len(k) == 0 {
		return ErrEmptyKeywords
	}
	return nil
}

func (k Keywords) String() string {
	return strings.Join(k, " "+KeywordsDelimiter+" ")
}
