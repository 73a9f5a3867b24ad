package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Inbound bot updates
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketbot_updates_total",
			Help: "Total handled bot updates",
		},
		[]string{"kind"}, // command|text|photo|callback|checkout|payment
	)

	// Payment settlement
	SettlementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketbot_settlements_total",
			Help: "Total settled payments",
		},
	)
	SettlementsReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketbot_settlements_replayed_total",
			Help: "Total payment events ignored as replays",
		},
	)
	SettlementsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketbot_settlements_dropped_total",
			Help: "Total payment events dropped (unknown product or seller)",
		},
	)

	// Marketplace activity
	ListingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketbot_listings_created_total",
			Help: "Total listings submitted for moderation",
		},
	)
	WithdrawalsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketbot_withdrawals_created_total",
			Help: "Total withdrawal requests created",
		},
	)
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(UpdatesTotal)
	prometheus.MustRegister(SettlementsTotal)
	prometheus.MustRegister(SettlementsReplayed)
	prometheus.MustRegister(SettlementsDropped)
	prometheus.MustRegister(ListingsCreated)
	prometheus.MustRegister(WithdrawalsCreated)
}
