package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/events"
	log "github.com/sirupsen/logrus"
)

// Backend persists sessions. Load returns nil without error when the
// recipient has no session yet.
type Backend interface {
	Load(ctx context.Context, recipientID int64) (*entities.Session, error)
	Save(ctx context.Context, session entities.Session) error
	DigestSubscribers(ctx context.Context) ([]int64, error)
}

type Mutation func(session *entities.Session) error

// Store serializes mutations per recipient. Different recipients never wait
// on each other.
type Store struct {
	backend Backend
	bus     EventBus.Bus
	locks   sync.Map
}

func NewStore(backend Backend, bus EventBus.Bus) (*Store, error) {
	if backend == nil {
		return nil, errors.New("session backend is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	return &Store{backend: backend, bus: bus}, nil
}

// Get returns the recipient's session, creating the default one when absent.
func (s *Store) Get(ctx context.Context, recipientID int64) (entities.Session, error) {
	unlock := s.lock(recipientID)
	defer unlock()

	return s.loadOrCreate(ctx, recipientID)
}

func (s *Store) Update(ctx context.Context, recipientID int64, mutation Mutation) (entities.Session, error) {
	unlock := s.lock(recipientID)

	before, err := s.loadOrCreate(ctx, recipientID)
	if err != nil {
		unlock()
		return entities.Session{}, err
	}

	after := before.Clone()
	if err = mutation(&after); err != nil {
		unlock()
		return before, err
	}
	after.RecipientID = recipientID
	after.UpdatedAt = time.Now().UTC()

	if err = s.backend.Save(ctx, after); err != nil {
		unlock()
		return before, fmt.Errorf("save session %d: %w", recipientID, err)
	}
	unlock()

	s.publishDigestChange(before, after)
	return after, nil
}

func (s *Store) RemoveDigest(ctx context.Context, recipientID int64) error {
	_, err := s.Update(ctx, recipientID, func(session *entities.Session) error {
		session.DigestEnabled = false
		return nil
	})
	return err
}

func (s *Store) DigestSubscribers(ctx context.Context) ([]int64, error) {
	return s.backend.DigestSubscribers(ctx)
}

func (s *Store) loadOrCreate(ctx context.Context, recipientID int64) (entities.Session, error) {
	session, err := s.backend.Load(ctx, recipientID)
	if err != nil {
		return entities.Session{}, fmt.Errorf("load session %d: %w", recipientID, err)
	}
	if session != nil {
		return *session, nil
	}

	created := entities.NewSession(recipientID)
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	if err = s.backend.Save(ctx, created); err != nil {
		return entities.Session{}, fmt.Errorf("create session %d: %w", recipientID, err)
	}
	log.Debugf("created session for recipient %d", recipientID)
	return created, nil
}

func (s *Store) lock(recipientID int64) func() {
	mu, _ := s.locks.LoadOrStore(recipientID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

func (s *Store) publishDigestChange(before, after entities.Session) {
	switch {
	case !before.DigestActive() && after.DigestActive():
		s.bus.Publish(events.DigestSubscribedTopic, events.DigestSubscribed{RecipientID: after.RecipientID})
	case before.DigestActive() && !after.DigestActive():
		s.bus.Publish(events.DigestUnsubscribedTopic, events.DigestUnsubscribed{RecipientID: after.RecipientID})
	}
}
