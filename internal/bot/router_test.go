package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/maxaizer/job-alert-bot/internal/services"
	"github.com/maxaizer/job-alert-bot/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = int64(100)

func newTestRouter(t *testing.T) (*Router, *sessions.Store, *mockRunner) {
	store, err := sessions.NewStore(sessions.NewMemoryBackend(), EventBus.New())
	require.NoError(t, err)

	runner := &mockRunner{}
	next := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	router, err := NewRouter(store, runner, mockCatalog{ids: []entities.SourceID{"freelancer", "guru", "hh"}},
		mockDigest{next: map[int64]time.Time{recipient: next}})
	require.NoError(t, err)
	return router, store, runner
}

func session(t *testing.T, store *sessions.Store) entities.Session {
	s, err := store.Get(context.Background(), recipient)
	require.NoError(t, err)
	return s
}

func Test_Router_Jobs_WithInlineKeywords_ShouldSaveAndRun(t *testing.T) {
	router, store, runner := newTestRouter(t)
	ctx := context.Background()

	router.Handle(ctx, recipient, "/source freelancer")
	router.Handle(ctx, recipient, "/jobs python - scraping - API")

	require.Len(t, runner.requests, 1)
	request := runner.requests[0]
	assert.Equal(t, entities.Keywords{"python", "scraping", "API"}, request.Keywords)
	assert.Equal(t, []entities.SourceID{"freelancer"}, request.Sources)
	assert.Equal(t, services.PassInteractive, request.Kind)
	assert.Equal(t, entities.Keywords{"python", "scraping", "API"}, session(t, store).SavedKeywords)
	assert.Len(t, runner.replies, 1, "only the source confirmation, the pass sends its own closing message")
}

func Test_Router_Jobs_WithoutKeywords_ShouldAskForThem(t *testing.T) {
	router, _, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "/jobs")

	assert.Empty(t, runner.requests)
	assert.Equal(t, jobsUsageText, runner.lastReply())
}

func Test_Router_Jobs_BlankKeywords_ShouldReject(t *testing.T) {
	router, _, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "/jobs  -  - ")

	assert.Empty(t, runner.requests)
	assert.Equal(t, keywordsUsageText, runner.lastReply())
}

func Test_Router_Jobs_WithoutSource_ShouldReject(t *testing.T) {
	router, _, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "/jobs go")

	assert.Empty(t, runner.requests)
	assert.Equal(t, services.NoSourcesText, runner.lastReply())
}

func Test_Router_Source_UnknownAlongsideValid_ShouldBeAccepted(t *testing.T) {
	router, store, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "/source fakesite, guru")

	assert.Equal(t, []entities.SourceID{"fakesite", "guru"}, session(t, store).SelectedSources)
	assert.Contains(t, runner.lastReply(), "fakesite, guru")
}

func Test_Router_Source_OnlyUnknown_ShouldReject(t *testing.T) {
	router, store, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "/source fakesite")

	assert.False(t, session(t, store).HasSources())
	assert.Contains(t, runner.lastReply(), "Unknown source")
}

func Test_Router_Subscribe_WithoutKeywords_ShouldReject(t *testing.T) {
	router, store, runner := newTestRouter(t)
	ctx := context.Background()
	router.Handle(ctx, recipient, "/source all")

	router.Handle(ctx, recipient, "/subscribe")

	assert.False(t, session(t, store).DigestEnabled)
	assert.Equal(t, subscribeUsageText, runner.lastReply())
}

func Test_Router_SubscribeAndUnsubscribe_ShouldToggleDigest(t *testing.T) {
	router, store, runner := newTestRouter(t)
	ctx := context.Background()
	router.Handle(ctx, recipient, "/source all")
	router.Handle(ctx, recipient, "/keywords remote")

	router.Handle(ctx, recipient, "/subscribe")
	assert.True(t, session(t, store).DigestActive())
	assert.Contains(t, runner.lastReply(), "Next digest: 2030-01-02 09:00 UTC")

	router.Handle(ctx, recipient, "/unsubscribe")
	assert.False(t, session(t, store).DigestEnabled)
	assert.Equal(t, entities.Keywords{"remote"}, session(t, store).SavedKeywords)
}

func Test_Router_Status_ShouldDescribeSession(t *testing.T) {
	router, _, runner := newTestRouter(t)
	ctx := context.Background()
	router.Handle(ctx, recipient, "/source hh")
	router.Handle(ctx, recipient, "/keywords go - rust")

	router.Handle(ctx, recipient, "/status")

	assert.Equal(t, "Sources: hh\nKeywords: go - rust\nDaily digest: off", runner.lastReply())
}

func Test_Router_UnknownInput_ShouldReplyOnce(t *testing.T) {
	router, _, runner := newTestRouter(t)

	router.Handle(context.Background(), recipient, "what is this")
	router.Handle(context.Background(), recipient, "/dance")

	assert.Equal(t, []string{unknownCommandText, unknownCommandText}, runner.replies)
}

func Test_Router_ConcurrentKeywordUpdates_ShouldAllReply(t *testing.T) {
	router, store, runner := newTestRouter(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			router.Handle(context.Background(), recipient, "/keywords go")
		}()
	}
	wg.Wait()

	assert.Len(t, runner.replies, 20)
	assert.Equal(t, entities.Keywords{"go"}, session(t, store).SavedKeywords)
}
