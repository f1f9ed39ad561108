package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseKeywords_ShouldTrimAndSplitByDash(t *testing.T) {
	keywords, err := ParseKeywords(" python -  scraping   -API ")

	assert.NoError(t, err)
	assert.Equal(t, Keywords{"python", "scraping", "API"}, keywords)
}

func Test_ParseKeywords_WhenAllTermsBlank_ShouldFail(t *testing.T) {
	for _, input := range []string{"", "   ", "-", " - - ", "\n-\t"} {
		_, err := ParseKeywords(input)
		assert.ErrorIs(t, err, ErrEmptyKeywords, "input %q", input)
	}
}

func Test_ParseKeywords_ShouldKeepFirstOfRepeatedTerms(t *testing.T) {
	keywords, err := ParseKeywords("Go - remote - go - REMOTE - rust")

	assert.NoError(t, err)
	assert.Equal(t, Keywords{"Go", "remote", "rust"}, keywords)
}

func Test_Keywords_String(t *testing.T) {
	assert.Equal(t, "go - rust", Keywords{"go", "rust"}.String())
}
