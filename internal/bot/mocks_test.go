package bot

import (
	"context"
	"sync"
	"time"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/services"
)

type mockApi struct {
	SentMessages []botApi.Chattable
	err          error
}

func (m *mockApi) Send(chattable botApi.Chattable) (botApi.Message, error) {
	m.SentMessages = append(m.SentMessages, chattable)
	return botApi.Message{}, m.err
}

type mockRunner struct {
	mu       sync.Mutex
	requests []services.PassRequest
	replies  []string
}

func (m *mockRunner) Run(_ context.Context, request services.PassRequest) services.DeliveryReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, request)
	return services.DeliveryReport{}
}

func (m *mockRunner) Notify(_ context.Context, _ int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, text)
	return nil
}

func (m *mockRunner) lastReply() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return ""
	}
	return m.replies[len(m.replies)-1]
}

type mockCatalog struct {
	ids []entities.SourceID
}

func (m mockCatalog) IDs() []entities.SourceID { return m.ids }

func (m mockCatalog) Has(id entities.SourceID) bool {
	if id == entities.AllSources {
		return true
	}
	for _, known := range m.ids {
		if known == id {
			return true
		}
	}
	return false
}

type mockDigest struct {
	next map[int64]time.Time
}

func (m mockDigest) NextRun(recipientID int64) (time.Time, bool) {
	next, ok := m.next[recipientID]
	return next, ok
}
