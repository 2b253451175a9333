// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package readout polls a sensor at a fixed cadence and hands every result,
// good or bad, to a set of sinks.
//
// A failed read never stops the loop. Sinks render a failure as the fixed
// InvalidText and the next cycle starts after the same interval as after a
// successful one.
package readout

import (
	"errors"
	"time"

	"github.com/GermanBionicSystems/dht11mon/dht11"
)

// InvalidText is shown in place of a reading when a read cycle fails.
const InvalidText = "Invalid Data!!"

// Outcome labels, one per error kind.
const (
	OutcomeOK               = "ok"
	OutcomeLineTimeout      = "line_timeout"
	OutcomeInsufficientBits = "insufficient_bits"
	OutcomeChecksumMismatch = "checksum_mismatch"
	OutcomeError            = "error"
)

// Result is the outcome of one read cycle.
type Result struct {
	Time    time.Time
	Reading dht11.Reading
	// Err is nil when Reading is valid.
	Err error
}

// OK reports whether the cycle produced a valid reading.
func (r Result) OK() bool {
	return r.Err == nil
}

// Outcome classifies the result for counters and logs.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return OutcomeOK
	case errors.Is(r.Err, dht11.ErrLineTimeout):
		return OutcomeLineTimeout
	case errors.Is(r.Err, dht11.ErrInsufficientBits):
		return OutcomeInsufficientBits
	case errors.Is(r.Err, dht11.ErrChecksumMismatch):
		return OutcomeChecksumMismatch
	default:
		return OutcomeError
	}
}

// Sink consumes read results.
type Sink interface {
	Report(r Result) error
}
