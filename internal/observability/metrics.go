package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesCreated     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "greenmobility", Name: "rides_created_total", Help: "Total rides created"})
	SearchesTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "greenmobility", Name: "ride_searches_total", Help: "Total ride searches served"})
	AcceptConflicts  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "greenmobility", Name: "accept_capacity_conflicts_total", Help: "Accepts rejected because the passenger cap was reached"})
	SettlementsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "greenmobility", Name: "settlements_total", Help: "Rides whose loyalty points were credited"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "greenmobility", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "greenmobility",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
