// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/GermanBionicSystems/dht11mon/dht11"
	"github.com/GermanBionicSystems/dht11mon/hd44780"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// panel records the calls made to a TextPanel.
type panel struct {
	calls []string
	err   error
}

func (p *panel) Clear() error {
	p.calls = append(p.calls, "clear")
	return p.err
}

func (p *panel) WriteAt(col, row int, text string) error {
	p.calls = append(p.calls, fmt.Sprintf("%d,%d:%s", col, row, text))
	return p.err
}

var (
	testTime    = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	testReading = dht11.Reading{HumidityInt: 50, HumidityFrac: 0, TemperatureInt: 24, TemperatureFrac: 0}
)

func TestLCD(t *testing.T) {
	tests := []struct {
		name   string
		clock  bool
		result Result
		calls  []string
	}{
		{
			name:   "reading",
			result: Result{Time: testTime, Reading: testReading},
			calls:  []string{"clear", "0,0:Temp: 24.0C", "0,1:Hum: 50.0%"},
		},
		{
			name:   "invalid",
			result: Result{Time: testTime, Err: dht11.ErrChecksumMismatch},
			calls:  []string{"clear", "0,0:Invalid Data!!"},
		},
		{
			name:   "clock reading",
			clock:  true,
			result: Result{Time: testTime, Reading: testReading},
			calls:  []string{"clear", "0,0:15:09:26", "0,1:24.0C 50.0%"},
		},
		{
			name:   "clock invalid",
			clock:  true,
			result: Result{Time: testTime, Err: dht11.ErrLineTimeout},
			calls:  []string{"clear", "0,0:15:09:26", "0,1:Invalid Data!!"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := &panel{}
			l := &LCD{Panel: p, Clock: test.clock}
			if err := l.Report(test.result); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(p.calls, test.calls) {
				t.Errorf("expected %q, received %q", test.calls, p.calls)
			}
		})
	}
}

func TestLCDError(t *testing.T) {
	errBus := errors.New("bus error")
	p := &panel{err: errBus}
	l := &LCD{Panel: p}
	if err := l.Report(Result{Reading: testReading}); !errors.Is(err, errBus) {
		t.Errorf("expected the panel error, received %v", err)
	}
	if len(p.calls) != 1 {
		t.Errorf("expected to stop after the failed clear, found %q", p.calls)
	}
}

// decodeText returns the characters written to a PCF8574 backpack, taken from
// the nibbles latched with RS set.
func decodeText(ops []i2ctest.IO) string {
	var nibbles []byte
	for _, op := range ops {
		if len(op.W) == 1 && op.W[0]&0x04 != 0 && op.W[0]&0x01 != 0 {
			nibbles = append(nibbles, op.W[0]>>4)
		}
	}
	var text []byte
	for ix := 0; ix+1 < len(nibbles); ix += 2 {
		text = append(text, nibbles[ix]<<4|nibbles[ix+1])
	}
	return string(text)
}

func TestLCDOnHD44780(t *testing.T) {
	bus := &i2ctest.Record{}
	lcd, err := hd44780.NewPCF8574Backpack(bus, hd44780.DefaultAddress, 2, 16)
	if err != nil {
		t.Fatal(err)
	}
	bus.Ops = nil
	l := &LCD{Panel: lcd}
	if err := l.Report(Result{Err: dht11.ErrInsufficientBits}); err != nil {
		t.Fatal(err)
	}
	if text := decodeText(bus.Ops); text != InvalidText {
		t.Errorf("expected %q on the display, found %q", InvalidText, text)
	}

	bus.Ops = nil
	if err := l.Report(Result{Reading: testReading}); err != nil {
		t.Fatal(err)
	}
	if text := decodeText(bus.Ops); text != "Temp: 24.0CHum: 50.0%" {
		t.Errorf("unexpected display text %q", text)
	}
}
