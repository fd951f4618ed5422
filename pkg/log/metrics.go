// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	m "github.com/ncoderz/log-m8-sub000/pkg/metrics"
)

// metrics groups various metrics counters for statistical reasons.
type metrics struct {
	FatalCount   m.Counter
	ErrorCount   m.Counter
	WarnCount    m.Counter
	InfoCount    m.Counter
	DebugCount   m.Counter
	TrackCount   m.Counter
	TraceCount   m.Counter
	DroppedCount m.Counter
	// FilteredCount counts deliveries rejected by a filter.
	FilteredCount      m.Counter
	AppenderErrorCount m.CounterVec
	ActiveAppenders    m.Gauge
}

// Fire implements Hook interface.
func (m metrics) Fire(v Level) error {
	switch v {
	case LevelFatal:
		m.FatalCount.Inc()
	case LevelError:
		m.ErrorCount.Inc()
	case LevelWarn:
		m.WarnCount.Inc()
	case LevelInfo:
		m.InfoCount.Inc()
	case LevelDebug:
		m.DebugCount.Inc()
	case LevelTrack:
		m.TrackCount.Inc()
	default:
		m.TraceCount.Inc()
	}
	return nil
}

// newLogMetrics returns pointer to a new metrics instance ready to use.
func newLogMetrics() *metrics {
	const subsystem = "log"

	counter := func(name, help string) m.Counter {
		return m.NewCounter(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &metrics{
		FatalCount:    counter("fatal_count", "Number FATAL log messages."),
		ErrorCount:    counter("error_count", "Number ERROR log messages."),
		WarnCount:     counter("warn_count", "Number WARN log messages."),
		InfoCount:     counter("info_count", "Number INFO log messages."),
		DebugCount:    counter("debug_count", "Number DEBUG log messages."),
		TrackCount:    counter("track_count", "Number TRACK log messages."),
		TraceCount:    counter("trace_count", "Number TRACE log messages."),
		DroppedCount:  counter("buffer_dropped_count", "Number of buffered messages dropped before initialization."),
		FilteredCount: counter("filtered_count", "Number of deliveries rejected by filters."),
		AppenderErrorCount: m.NewCounterVec(m.CounterOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "appender_error_count",
			Help:      "Number of failed appender operations.",
		}, []string{"appender", "op"}),
		ActiveAppenders: m.NewGauge(m.GaugeOpts{
			Namespace: m.Namespace,
			Subsystem: subsystem,
			Name:      "active_appenders",
			Help:      "Number of appenders of the current configuration.",
		}),
	}
}

// Metrics returns the prometheus collectors of the pipeline.
func (p *Pipeline) Metrics() []m.Collector {
	return m.PrometheusCollectorsFromFields(p.metrics)
}
