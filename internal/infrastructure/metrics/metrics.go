package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "bad_status"
	OutcomeMalformed = "malformed"
)

type DonationMetrics struct {
	priceFetches   *prometheus.CounterVec
	priceFetchTime *prometheus.HistogramVec
	donations      *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

var (
	once     sync.Once
	registry *DonationMetrics
)

// Donations returns the process-wide collectors, registering them on first use.
func Donations() *DonationMetrics {
	once.Do(func() {
		registry = &DonationMetrics{
			priceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "price_fetch_total",
				Help: "Price feed requests by feed and outcome.",
			}, []string{"feed", "outcome"}),
			priceFetchTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "price_fetch_duration_seconds",
				Help:    "Latency of price feed requests.",
				Buckets: prometheus.DefBuckets,
			}, []string{"feed"}),
			donations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "donations_recorded_total",
				Help: "Donation receipts recorded by chain and success flag.",
			}, []string{"chain", "success"}),
			rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "http_rate_limited_total",
				Help: "Requests rejected by the rate limiter by route group.",
			}, []string{"group"}),
		}
		prometheus.MustRegister(
			registry.priceFetches,
			registry.priceFetchTime,
			registry.donations,
			registry.rateLimited,
		)
	})
	return registry
}

func (m *DonationMetrics) ObservePriceFetch(feed, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.priceFetches.WithLabelValues(feed, outcome).Inc()
	m.priceFetchTime.WithLabelValues(feed).Observe(elapsed.Seconds())
}

func (m *DonationMetrics) RecordDonation(chain string, success bool) {
	if m == nil {
		return
	}
	m.donations.WithLabelValues(chain, strconv.FormatBool(success)).Inc()
}

func (m *DonationMetrics) RateLimited(group string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(group).Inc()
}
