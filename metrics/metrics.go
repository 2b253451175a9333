// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exports read results as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/GermanBionicSystems/dht11mon/readout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dht11"

// outcomes are initialised to zero so that rate() works from the first
// failure on.
var outcomes = []string{
	readout.OutcomeOK,
	readout.OutcomeLineTimeout,
	readout.OutcomeInsufficientBits,
	readout.OutcomeChecksumMismatch,
	readout.OutcomeError,
}

// Sink is a readout.Sink updating Prometheus collectors. The gauges keep
// the last valid reading.
type Sink struct {
	temperature prometheus.Gauge
	humidity    prometheus.Gauge
	lastSuccess prometheus.Gauge
	reads       *prometheus.CounterVec
}

// New returns a Sink whose collectors are registered with reg.
func New(reg prometheus.Registerer) (*Sink, error) {
	s := &Sink{
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "Temperature of the last valid reading.",
		}),
		humidity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relative_humidity_percent",
			Help:      "Relative humidity of the last valid reading.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last valid reading.",
		}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Read cycles by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{s.temperature, s.humidity, s.lastSuccess, s.reads} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}
	for _, o := range outcomes {
		s.reads.WithLabelValues(o)
	}
	return s, nil
}

func (s *Sink) String() string {
	return "prometheus"
}

// Report implements readout.Sink.
func (s *Sink) Report(r readout.Result) error {
	s.reads.WithLabelValues(r.Outcome()).Inc()
	if !r.OK() {
		return nil
	}
	s.temperature.Set(r.Reading.Celsius())
	s.humidity.Set(r.Reading.Humidity())
	s.lastSuccess.Set(float64(r.Time.Unix()))
	return nil
}

// Handler serves the metrics gathered by g in the Prometheus exposition
// format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ readout.Sink = &Sink{}
