// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics is a thin alias layer over the prometheus client used by
// the logging pipeline to describe its own behaviour.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	dto "github.com/prometheus/client_model/go"
)

const (
	// Namespace is prefixed before every metric. If it is changed, it must be done
	// before any metrics collector is registered.
	Namespace = "logm8"
)

// Prometheus Vector type interfaces
type (
	CounterMetricVector interface {
		WithLabelValues(lvs ...string) Counter
		Describe(chan<- *Desc)
		Collect(chan<- Metric)
	}

	// MetricsRegistererGatherer registers collectors and gathers their values.
	MetricsRegistererGatherer interface {
		Gather() ([]*MetricFamily, error)
		Register(Collector) error
		Unregister(Collector) bool
	}
)

// Prometheus types aliases
type (
	Collector = prometheus.Collector
	Metric    = prometheus.Metric
	Desc      = prometheus.Desc

	Counter     = prometheus.Counter
	CounterOpts = prometheus.CounterOpts
	CounterVec  = CounterMetricVector

	Gauge     = prometheus.Gauge
	GaugeOpts = prometheus.GaugeOpts

	MetricFamily = dto.MetricFamily
)
