// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/dht11mon/dht11"
)

// DefaultInterval is the delay between the end of one cycle and the start of
// the next.
const DefaultInterval = 3 * time.Second

// Sensor is read once per cycle. dht11.Dev implements it.
type Sensor interface {
	Read() (dht11.Reading, error)
}

// Poller reads Sensor and reports to Sinks in a loop.
type Poller struct {
	Sensor Sensor
	Sinks  []Sink
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Poll runs one cycle: read the sensor and report to every sink. Sink errors
// are logged and do not prevent the remaining sinks from running.
func (p *Poller) Poll() Result {
	log := p.logger()
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	reading, err := p.Sensor.Read()
	r := Result{Time: now(), Reading: reading, Err: err}
	if r.OK() {
		log.Debug("reading",
			"humidity", r.Reading.Humidity(),
			"temperature", r.Reading.Celsius(),
			"fahrenheit", r.Reading.Fahrenheit())
	} else {
		log.Warn("read failed", "outcome", r.Outcome(), "error", err)
	}
	for _, s := range p.Sinks {
		if err := s.Report(r); err != nil {
			log.Error("sink failed", "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
	return r
}

// Run polls until ctx is cancelled and returns ctx.Err(). Cancellation is
// only observed between cycles; a read in progress always completes.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	p.logger().Info("polling", "interval", interval, "sinks", len(p.Sinks))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Poll()
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *Poller) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
