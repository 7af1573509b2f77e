// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments ringburst's outside view of the ring: how often
// producers get denied, how many elements move, how often the consumer
// polls an empty ring. None of this lives inside the mpscring package itself —
// the core stays free of instrumentation, per its non-goals.
type Metrics struct {
	registry       *prometheus.Registry
	acquiresOK     prometheus.Counter
	acquiresDenied prometheus.Counter
	elementsMoved  prometheus.Counter
	consumerIdle   prometheus.Counter
}

// NewMetrics registers a fresh set of counters on a private registry,
// the way go-arcade-arcade's metrics server keeps its own registry
// instead of reaching for the global default one.
func NewMetrics(runID string) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": runID}

	m := &Metrics{
		registry: registry,
		acquiresOK: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringburst",
			Name:        "acquires_ok_total",
			Help:        "Acquire calls that returned a reservation.",
			ConstLabels: labels,
		}),
		acquiresDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringburst",
			Name:        "acquires_denied_total",
			Help:        "Acquire calls that returned no reservation.",
			ConstLabels: labels,
		}),
		elementsMoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringburst",
			Name:        "elements_moved_total",
			Help:        "Elements released by the consumer.",
			ConstLabels: labels,
		}),
		consumerIdle: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "ringburst",
			Name:        "consumer_idle_polls_total",
			Help:        "Consume calls that returned an empty range.",
			ConstLabels: labels,
		}),
	}

	registry.MustRegister(m.acquiresOK, m.acquiresDenied, m.elementsMoved, m.consumerIdle)
	return m
}

// Handler exposes the registry on /metrics for scraping during a run.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
