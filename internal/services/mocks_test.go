package services

import (
	"context"
	"sync"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/sources"
)

type stubSource struct {
	id       entities.SourceID
	listings []entities.Listing
	delay    time.Duration
	panics   bool
}

func (s stubSource) ID() entities.SourceID { return s.id }

func (s stubSource) FetchListings(ctx context.Context, _ sources.Query) []entities.Listing {
	if s.panics {
		panic("markup changed")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return s.listings
}

type sentMessage struct {
	recipientID int64
	message     Message
	at          time.Time
}

// recordingMessenger fails the n-th send (1-based) for each entry in failOn.
type recordingMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	calls  int
	failOn map[int]error
}

func (m *recordingMessenger) Send(_ context.Context, recipientID int64, message Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if err, ok := m.failOn[m.calls]; ok {
		return err
	}
	m.sent = append(m.sent, sentMessage{recipientID: recipientID, message: message, at: time.Now()})
	return nil
}

func (m *recordingMessenger) messages(recipientID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []sentMessage
	for _, sent := range m.sent {
		if sent.recipientID == recipientID {
			result = append(result, sent)
		}
	}
	return result
}

func (m *recordingMessenger) last(recipientID int64) Message {
	messages := m.messages(recipientID)
	if len(messages) == 0 {
		return Message{}
	}
	return messages[len(messages)-1].message
}

func listing(source entities.SourceID, title, description, link string) entities.Listing {
	return entities.NewListing(source, title, description, link)
}

func mustRegistry(adapters ...sources.Adapter) *sources.Registry {
	registry, err := sources.NewRegistry(adapters...)
	if err != nil {
		panic(err)
	}
	return registry
}
