package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveListings() []entities.Listing {
	var listings []entities.Listing
	for i := 1; i <= 5; i++ {
		listings = append(listings, listing("a", fmt.Sprintf("Job %d", i), "d", fmt.Sprintf("https://a.com/%d", i)))
	}
	return listings
}

func Test_Deliver_WhenThirdFails_ShouldReportPartialSuccess(t *testing.T) {
	assert := assert.New(t)

	messenger := &recordingMessenger{failOn: map[int]error{3: errors.New("blocked by user")}}
	dispatcher := NewDispatcher(messenger, 0)

	report := dispatcher.Deliver(context.Background(), 1, fiveListings(), DeliveryOptions{NoResultsText: NoMatchesText})

	assert.Equal(4, report.Delivered)
	assert.Equal(1, report.Failed)
	assert.Equal(5, report.Attempted())
	require.Len(t, report.Failures, 1)
	assert.Equal("Job 3", report.Failures[0].Listing.Title)
	assert.EqualError(report.Failures[0].Err, "blocked by user")
	assert.False(report.NoResults)
	assert.Equal(6, messenger.calls)
	assert.Equal("✅ Sent 4 jobs to you! (1 failed)", messenger.last(1).Text)
}

func Test_Deliver_NoListings_ShouldReportNoResults(t *testing.T) {
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, 0)

	report := dispatcher.Deliver(context.Background(), 1, nil, DeliveryOptions{NoResultsText: NoMatchesText})

	assert.True(t, report.NoResults)
	assert.Zero(t, report.Failed)
	assert.Zero(t, report.Delivered)
	require.Len(t, messenger.messages(1), 1)
	assert.Equal(t, NoMatchesText, messenger.last(1).Text)
}

func Test_Deliver_ShouldCapBatchKeepingFirst(t *testing.T) {
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, 0)

	report := dispatcher.Deliver(context.Background(), 1, fiveListings(), DeliveryOptions{Limit: 2})

	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 3, report.Truncated)
	assert.Equal(t, []string{"Job 1", "Job 2"}, []string{
		report.DeliveredListings[0].Title, report.DeliveredListings[1].Title})
	assert.Equal(t, "✅ Sent 2 jobs to you!", messenger.last(1).Text)
}

func Test_Deliver_InvalidURL_ShouldFailWithoutSending(t *testing.T) {
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, 0)
	listings := []entities.Listing{
		listing("a", "Broken", "d", "/relative/only"),
		listing("a", "Fine", "d", "https://a.com/1"),
	}

	report := dispatcher.Deliver(context.Background(), 1, listings, DeliveryOptions{})

	assert.Equal(t, 1, report.Delivered)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0].Err, entities.ErrInvalidURL)
	assert.Len(t, messenger.messages(1), 2)
}

func Test_Deliver_EachListingShouldBeSeparateMarkdownMessage(t *testing.T) {
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, 0)

	dispatcher.Deliver(context.Background(), 1, fiveListings()[:2], DeliveryOptions{})

	messages := messenger.messages(1)
	require.Len(t, messages, 3)
	assert.True(t, messages[0].message.Markdown)
	assert.True(t, messages[0].message.LinkPreview)
	assert.Contains(t, messages[0].message.Text, "https://a.com/1")
	assert.Contains(t, messages[1].message.Text, "https://a.com/2")
}

func Test_Deliver_ShouldPaceMessagesToRecipient(t *testing.T) {
	interval := 50 * time.Millisecond
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, interval)

	dispatcher.Deliver(context.Background(), 1, fiveListings()[:3], DeliveryOptions{})

	messages := messenger.messages(1)
	require.Len(t, messages, 4)
	for i := 1; i < len(messages); i++ {
		gap := messages[i].at.Sub(messages[i-1].at)
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond)
	}
}

func Test_Deliver_PacingShouldNotBlockOtherRecipients(t *testing.T) {
	interval := 200 * time.Millisecond
	messenger := &recordingMessenger{}
	dispatcher := NewDispatcher(messenger, interval)

	start := time.Now()
	var wg sync.WaitGroup
	for recipient := int64(1); recipient <= 2; recipient++ {
		wg.Add(1)
		go func(recipient int64) {
			defer wg.Done()
			dispatcher.Deliver(context.Background(), recipient, fiveListings()[:2], DeliveryOptions{})
		}(recipient)
	}
	wg.Wait()

	// each recipient needs two gaps, sequential delivery would need four
	assert.Less(t, time.Since(start), 3*interval+interval/2)
	assert.Len(t, messenger.messages(1), 3)
	assert.Len(t, messenger.messages(2), 3)
}

func Test_RenderListing_ShouldEscapeMarkdown(t *testing.T) {
	text := RenderListing(listing("a", "C_plus [senior]", "use *stars*", "https://a.com/1"))

	assert.Equal(t, "📢 *New Job Alert!*\n\n*C\\_plus \\[senior]*\nuse \\*stars\\*\n\n[View Job](https://a.com/1)", text)
}
