package sessions

import (
	"context"
	"slices"
	"sync"

	"github.com/maxaizer/job-alert-bot/internal/entities"
)

// MemoryBackend keeps sessions for the lifetime of the process.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[int64]entities.Session
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[int64]entities.Session)}
}

func (m *MemoryBackend) Load(_ context.Context, recipientID int64) (*entities.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[recipientID]
	if !ok {
		return nil, nil
	}
	session = session.Clone()
	return &session, nil
}

func (m *MemoryBackend) Save(_ context.Context, session entities.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.RecipientID] = session.Clone()
	return nil
}

func (m *MemoryBackend) DigestSubscribers(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for id, session := range m.sessions {
		if session.DigestActive() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
