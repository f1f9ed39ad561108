package hh

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

type VacancyPreview struct {
	ID          string
	Name        string
	Url         string     `json:"alternate_url"`
	PublishedAt CustomTime `json:"published_at"`
	Employer    Employer   `json:"employer"`
	Snippet     Snippet    `json:"snippet"`
}

type Employer struct {
	Name string `json:"name"`
}

// Snippet holds short html fragments with <highlighttext> marks.
type Snippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Text returns responsibility and requirement as plain text.
func (s Snippet) Text() string {
	var parts []string
	for _, part := range []string{s.Responsibility, s.Requirement} {
		part = strings.Join(strings.Fields(tagPattern.ReplaceAllString(part, "")), " ")
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

type CustomTime struct {
	time.Time
}

func (dt *CustomTime) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == "" {
		return nil
	}

	t, err := time.Parse("2006-01-02T15:04:05-0700", str)
	if err != nil {
		return fmt.Errorf("parsing time %s: %w", str, err)
	}
	dt.Time = t
	return nil
}
