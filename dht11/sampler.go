// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Line is the GPIO line wired to the sensor's data pin. Out drives the line
// as an output, In releases it as an input. gpio.PinIO satisfies Line.
type Line interface {
	Out(l gpio.Level) error
	In(pull gpio.Pull, edge gpio.Edge) error
	Read() gpio.Level
}

// Timing is the timing budget of one read cycle. Durations that are counted
// by the busy-wait loop are expressed in ticks.
type Timing struct {
	// WakeLow is how long the line is held low to wake the sensor.
	WakeLow time.Duration
	// ReleaseHigh is how long the line is driven high before it is released.
	ReleaseHigh time.Duration
	// Tick is the busy-wait between two reads of the line.
	Tick time.Duration
	// MaxTransitions bounds the number of level changes timed per cycle.
	MaxTransitions int
	// MaxTicks bounds the length of a single level. Reaching it ends the
	// cycle.
	MaxTicks int
	// HandshakeTransitions is the number of leading level changes that are
	// the sensor's acknowledgment and carry no data.
	HandshakeTransitions int
	// BitThreshold is the high phase length, in ticks, above which a bit is
	// a 1. A high phase of exactly BitThreshold ticks is a 0.
	BitThreshold int
}

// DefaultTiming is tuned for a Raspberry Pi reading a DHT11.
var DefaultTiming = Timing{
	WakeLow:              18 * time.Millisecond,
	ReleaseHigh:          40 * time.Microsecond,
	Tick:                 time.Microsecond,
	MaxTransitions:       85,
	MaxTicks:             255,
	HandshakeTransitions: 4,
	BitThreshold:         16,
}

func (t *Timing) validate() error {
	if t.MaxTransitions <= 0 || t.MaxTicks <= 0 || t.HandshakeTransitions < 0 || t.BitThreshold < 0 {
		return errors.New("dht11: invalid timing")
	}
	if t.BitThreshold >= t.MaxTicks {
		return fmt.Errorf("dht11: bit threshold %d must be below max ticks %d", t.BitThreshold, t.MaxTicks)
	}
	return nil
}

// isOne classifies the length of a high phase.
func (t *Timing) isOne(ticks int) bool {
	return ticks > t.BitThreshold
}

// sampler drives one start handshake and times the reply.
type sampler struct {
	line   Line
	timing *Timing
	sleep  func(time.Duration)
	spin   func(time.Duration)
}

// measure counts ticks while the line stays at level, up to MaxTicks.
func (s *sampler) measure(level gpio.Level) int {
	ticks := 0
	for s.line.Read() == level {
		ticks++
		s.spin(s.timing.Tick)
		if ticks == s.timing.MaxTicks {
			break
		}
	}
	return ticks
}

// sample returns the frame and the number of data bits captured. A timeout
// during the acknowledgment is an error; once data has started, a timeout
// marks the end of the transmission.
func (s *sampler) sample() (Frame, int, error) {
	var f Frame
	t := s.timing

	if err := s.line.Out(gpio.Low); err != nil {
		return f, 0, fmt.Errorf("dht11: start pulse: %w", err)
	}
	s.sleep(t.WakeLow)
	if err := s.line.Out(gpio.High); err != nil {
		return f, 0, fmt.Errorf("dht11: start pulse: %w", err)
	}
	s.spin(t.ReleaseHigh)
	if err := s.line.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return f, 0, fmt.Errorf("dht11: release line: %w", err)
	}

	bits := 0
	last := gpio.High
	for i := range t.MaxTransitions {
		ticks := s.measure(last)
		last = s.line.Read()
		if ticks == t.MaxTicks {
			if i < t.HandshakeTransitions {
				return f, bits, fmt.Errorf("%w: no level change after %d transitions", ErrLineTimeout, i)
			}
			break
		}
		// Only the high phase of each bit carries its value.
		if i >= t.HandshakeTransitions && i%2 == 0 && bits < FrameBits {
			f.push(bits, t.isOne(ticks))
			bits++
		}
	}
	return f, bits, nil
}
