package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-alert-bot/internal/config"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/events"
	"github.com/maxaizer/job-alert-bot/internal/logger"
	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const NoSourcesText = "Please select a source first with /source <name>."

type SubscriptionState string

const (
	StateUnsubscribed SubscriptionState = "unsubscribed"
	StateSubscribed   SubscriptionState = "subscribed"
	StateFiring       SubscriptionState = "firing"
)

type sessionReader interface {
	Get(ctx context.Context, recipientID int64) (entities.Session, error)
	DigestSubscribers(ctx context.Context) ([]int64, error)
}

type digestRunner interface {
	Run(ctx context.Context, request PassRequest) DeliveryReport
	Notify(ctx context.Context, recipientID int64, text string) error
}

// DigestScheduler keeps one daily trigger per subscribed recipient.
// Firings read the session at fire time, so keyword or source changes made
// after subscribing are honored.
type DigestScheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	location *time.Location
	sessions sessionReader
	runner   digestRunner

	mu      sync.Mutex
	entries map[int64]cron.EntryID
	firing  map[int64]bool
	ctx     context.Context
}

func NewDigestScheduler(bus EventBus.Bus, sessions sessionReader, runner digestRunner,
	cfg config.DigestConfig) (*DigestScheduler, error) {

	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse digest schedule: %w", err)
	}
	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("load digest location: %w", err)
	}

	cronLogger := cron.PrintfLogger(log.StandardLogger())
	s := &DigestScheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule: schedule,
		location: location,
		sessions: sessions,
		runner:   runner,
		entries:  make(map[int64]cron.EntryID),
		firing:   make(map[int64]bool),
		ctx:      context.Background(),
	}

	if err = bus.Subscribe(events.DigestSubscribedTopic, s.onDigestSubscribed); err != nil {
		return nil, err
	}
	if err = bus.Subscribe(events.DigestUnsubscribedTopic, s.onDigestUnsubscribed); err != nil {
		return nil, err
	}
	return s, nil
}

// Start restores triggers of recipients subscribed in storage and starts
// the clock. Firings inherit ctx values but not its cancellation.
func (s *DigestScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = context.WithoutCancel(ctx)
	s.mu.Unlock()

	subscribers, err := s.sessions.DigestSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("restore digest subscriptions: %w", err)
	}
	for _, recipientID := range subscribers {
		s.Subscribe(recipientID)
	}

	s.cron.Start()
	log.Infof("digest scheduler started, restored %d subscriptions", len(subscribers))
	return nil
}

// Stop halts the clock and waits for in-flight digests.
func (s *DigestScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("digest scheduler stopped")
}

// Subscribe registers the recipient's trigger, replacing an existing one.
func (s *DigestScheduler) Subscribe(recipientID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[recipientID]; ok {
		s.cron.Remove(entryID)
	}
	s.entries[recipientID] = s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.fire(recipientID)
	}))
	metrics.DigestSubscriptions.Set(float64(len(s.entries)))

	log.Infof("digest trigger registered for %d", recipientID)
}

// Unsubscribe removes the trigger. A digest already firing runs to the end.
func (s *DigestScheduler) Unsubscribe(recipientID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.entries[recipientID]
	if !ok {
		return
	}
	s.cron.Remove(entryID)
	delete(s.entries, recipientID)
	metrics.DigestSubscriptions.Set(float64(len(s.entries)))

	log.Infof("digest trigger removed for %d", recipientID)
}

func (s *DigestScheduler) State(recipientID int64) SubscriptionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.firing[recipientID] {
		return StateFiring
	}
	if _, ok := s.entries[recipientID]; ok {
		return StateSubscribed
	}
	return StateUnsubscribed
}

// NextRun returns when the recipient's digest fires next.
func (s *DigestScheduler) NextRun(recipientID int64) (time.Time, bool) {
	s.mu.Lock()
	_, ok := s.entries[recipientID]
	s.mu.Unlock()

	if !ok {
		return time.Time{}, false
	}
	return s.schedule.Next(time.Now().In(s.location)), true
}

func (s *DigestScheduler) fire(recipientID int64) {
	s.mu.Lock()
	s.firing[recipientID] = true
	ctx := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.firing, recipientID)
		s.mu.Unlock()
	}()

	session, err := s.sessions.Get(ctx, recipientID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeScheduler).
			Errorf("digest for %d: failed to read session: %v", recipientID, err)
		return
	}

	if !session.DigestActive() {
		log.Infof("digest for %d skipped, no longer subscribed", recipientID)
		return
	}

	if !session.HasSources() {
		_ = s.runner.Notify(ctx, recipientID, NoSourcesText)
		return
	}

	s.runner.Run(ctx, PassRequest{
		RecipientID: recipientID,
		Sources:     session.SelectedSources,
		Keywords:    session.SavedKeywords,
		Kind:        PassDigest,
	})
}

func (s *DigestScheduler) onDigestSubscribed(event events.DigestSubscribed) {
	s.Subscribe(event.RecipientID)
}

func (s *DigestScheduler) onDigestUnsubscribed(event events.DigestUnsubscribed) {
	s.Unsubscribe(event.RecipientID)
}
