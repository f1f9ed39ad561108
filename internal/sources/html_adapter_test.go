package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/maxaizer/job-alert-bot/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freelancerRules(url string) SiteRules {
	rules := BuiltinSites()[0]
	rules.URL = url
	return rules
}

func Test_HTMLAdapter_Extract_ShouldNormalizeListings(t *testing.T) {
	page, err := os.Open("testdata/freelancer.html")
	require.NoError(t, err)
	defer page.Close()

	adapter, err := NewHTMLAdapter(freelancerRules("https://www.freelancer.com/jobs"), NewFetcher(time.Second, "test"))
	require.NoError(t, err)

	listings, err := adapter.Extract(page)
	require.NoError(t, err)

	require.Len(t, listings, 3)
	assert.Equal(t, "Python dev", listings[0].Title)
	assert.Equal(t, "Build a scraper for product pages.", listings[0].Description)
	assert.Equal(t, "https://www.freelancer.com/projects/python/scraper-123", listings[0].URL)
	assert.Equal(t, FreelancerSourceID, listings[0].SourceID)
	assert.NotEmpty(t, listings[0].Fingerprint)

	assert.Equal(t, "Go backend", listings[1].Title)
	assert.Equal(t, "REST API in Go.", listings[1].Description)
	assert.Equal(t, "https://www.freelancer.com/projects/go/backend-456", listings[1].URL)

	assert.Equal(t, "Missing link", listings[2].Title)
	assert.Empty(t, listings[2].URL)
	assert.ErrorIs(t, listings[2].ValidateURL(), entities.ErrInvalidURL)
}

func Test_HTMLAdapter_FetchListings_ShouldSendBrowserIdentity(t *testing.T) {
	page, err := os.ReadFile("testdata/freelancer.html")
	require.NoError(t, err)

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write(page)
	}))
	defer server.Close()

	adapter, err := NewHTMLAdapter(freelancerRules(server.URL), NewFetcher(time.Second, "Mozilla/5.0 test"))
	require.NoError(t, err)

	listings := adapter.FetchListings(context.Background(), Query{})

	assert.Len(t, listings, 3)
	assert.Equal(t, "Mozilla/5.0 test", userAgent)
}

func Test_HTMLAdapter_WhenStatusNot2xx_ShouldReturnNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter, err := NewHTMLAdapter(freelancerRules(server.URL), NewFetcher(time.Second, "test"))
	require.NoError(t, err)

	assert.Empty(t, adapter.FetchListings(context.Background(), Query{}))
}

func Test_HTMLAdapter_WhenFetchTimesOut_ShouldReturnNothing(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	adapter, err := NewHTMLAdapter(freelancerRules(server.URL), NewFetcher(50*time.Millisecond, "test"))
	require.NoError(t, err)

	start := time.Now()
	listings := adapter.FetchListings(context.Background(), Query{})

	assert.Empty(t, listings)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func Test_HTMLAdapter_WhenMarkupChanged_ShouldReturnNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="new-card"><h2>Python dev</h2></div></body></html>`))
	}))
	defer server.Close()

	adapter, err := NewHTMLAdapter(freelancerRules(server.URL), NewFetcher(time.Second, "test"))
	require.NoError(t, err)

	assert.Empty(t, adapter.FetchListings(context.Background(), Query{}))
}

func Test_NewHTMLAdapter_ShouldValidateRules(t *testing.T) {
	_, err := NewHTMLAdapter(SiteRules{ID: "broken"}, NewFetcher(time.Second, "test"))
	assert.Error(t, err)

	rules := freelancerRules("https://www.freelancer.com/jobs")
	rules.ID = entities.AllSources
	_, err = NewHTMLAdapter(rules, NewFetcher(time.Second, "test"))
	assert.Error(t, err)
}
