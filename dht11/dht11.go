// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3/cpu"
)

// MinInterval is the shortest interval accepted by SenseContinuous. The
// sensor samples at most once per second.
const MinInterval = time.Second

// Opts holds the configuration options for the device.
type Opts struct {
	// Timing is the timing budget of a read cycle.
	Timing Timing
	// Sleep waits for millisecond scale delays. Default is time.Sleep.
	Sleep func(time.Duration)
	// Spin busy-waits for microsecond scale delays. Default is cpu.Nanospin.
	Spin func(time.Duration)
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Timing: DefaultTiming,
	Sleep:  time.Sleep,
	Spin:   cpu.Nanospin,
}

// Dev represents a DHT11 sensor attached to a single GPIO line.
type Dev struct {
	s    sampler
	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New returns a Dev reading the sensor on line. line is normally a
// gpio.PinIO obtained from gpioreg. The Opts can be nil.
func New(line Line, opts *Opts) (*Dev, error) {
	if line == nil {
		return nil, errors.New("dht11: nil line")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if err := o.Timing.validate(); err != nil {
		return nil, err
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Spin == nil {
		o.Spin = cpu.Nanospin
	}
	timing := o.Timing
	return &Dev{s: sampler{line: line, timing: &timing, sleep: o.Sleep, spin: o.Spin}}, nil
}

// Sample performs the start handshake and times the sensor's reply. It
// returns the raw frame and how many of its 40 bits were received. A short
// transmission is not an error here; Decode reports it.
func (d *Dev) Sample() (Frame, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.s.sample()
}

// Read samples the sensor and decodes the result.
func (d *Dev) Read() (Reading, error) {
	f, bits, err := d.Sample()
	if err != nil {
		return Reading{}, err
	}
	return Decode(f, bits)
}

// Sense implements physic.SenseEnv. A failed read leaves env zeroed.
func (d *Dev) Sense(env *physic.Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0

	r, err := d.Read()
	if err != nil {
		return err
	}
	r.Env(env)
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval. Failed reads are skipped. Call
// Halt() to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("dht11: invalid interval %s, minimum %s", interval, MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("dht11: sense continuous already running")
	}

	stop := make(chan struct{})
	d.stop = stop
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(env *physic.Env) {
	env.Temperature = physic.Celsius / 10
	env.Pressure = 0
	env.Humidity = physic.PercentRH / 10
}

// Halt stops a running SenseContinuous() loop.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11{%v}", d.s.line)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
