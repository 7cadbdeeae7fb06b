package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_fetch_total",
			Help: "Snapshot fetches by outcome (accepted, stale, failed)",
		},
		[]string{"result"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_fetch_duration_seconds",
			Help:    "Time spent fetching a reservation snapshot",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	snapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_reservations",
			Help: "Reservations in the current snapshot",
		},
	)
)
