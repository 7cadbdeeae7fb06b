package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reservation_cache_lookups_total",
	Help: "Per-day reservation cache lookups by result.",
}, []string{"result"})
