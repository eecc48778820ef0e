package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EntriesSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_entries_submitted_total",
		Help: "Entries accepted by the intake controller",
	})

	DuplicateEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_duplicate_entries_total",
		Help: "Submissions rejected because the contact already entered",
	})

	BonusClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_bonus_claims_total",
		Help: "Secondary-contact bonus claims granted",
	})

	ReferralCreditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_referral_credits_total",
		Help: "Referral entries credited to referrers",
	})

	WinnerDrawsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giveaway_winner_draws_total",
		Help: "Winner draws performed",
	})
)
