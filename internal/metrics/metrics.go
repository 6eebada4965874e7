// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamAttempts counts single endpoint attempts by operation and outcome
	// (success, failure, terminal).
	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinemavault",
		Name:      "upstream_attempts_total",
		Help:      "Upstream film API attempts by operation and outcome.",
	}, []string{"operation", "outcome"})

	// Responses counts gateway responses by operation and provenance tag.
	Responses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinemavault",
		Name:      "gateway_responses_total",
		Help:      "Gateway responses by operation and data source.",
	}, []string{"operation", "source"})

	// Rentals counts rental ledger writes.
	Rentals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinemavault",
		Name:      "rentals_total",
		Help:      "Rentals recorded or extended.",
	}, []string{"action"})
)
