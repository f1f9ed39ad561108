package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SourceFetchDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "bot_source_fetch_duration_seconds",
			Help:       "Duration of a single source fetch and extraction.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"source"},
	)
	SourceListingsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_source_listings_total",
			Help: "Total number of listings extracted per source.",
		},
		[]string{"source"},
	)
	PassDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_pass_duration_seconds",
			Help:    "Duration of aggregate, filter and dispatch passes in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)
	DeliveriesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_deliveries_total",
			Help: "Total number of listing deliveries by result.",
		},
		[]string{"result"},
	)
	DigestSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_digest_subscriptions",
			Help: "Number of registered digest triggers.",
		},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(SourceFetchDuration)
		prometheus.MustRegister(SourceListingsCounter)
		prometheus.MustRegister(PassDuration)
		prometheus.MustRegister(DeliveriesCounter)
		prometheus.MustRegister(DigestSubscriptions)
	})
}

func StartMetricsServer(address string) {

	register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Infof("metrics server listening on %s", address)
		log.Fatal(http.ListenAndServe(address, mux))
	}()
}
