// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package readout

import (
	"fmt"
)

// TextPanel is a character display addressed by zero based column and row.
// hd44780.Dev implements it.
type TextPanel interface {
	Clear() error
	WriteAt(col, row int, text string) error
}

// LCD renders results on a two row character display.
//
// By default row 0 shows the temperature and row 1 the humidity. With Clock
// set, row 0 shows the time of the reading and row 1 both values.
type LCD struct {
	Panel TextPanel
	Clock bool
}

// Report implements Sink.
func (l *LCD) Report(r Result) error {
	if err := l.Panel.Clear(); err != nil {
		return err
	}
	row := 0
	if l.Clock {
		if err := l.Panel.WriteAt(0, row, r.Time.Format("15:04:05")); err != nil {
			return err
		}
		row++
	}
	if !r.OK() {
		return l.Panel.WriteAt(0, row, InvalidText)
	}
	v := r.Reading
	if l.Clock {
		return l.Panel.WriteAt(0, row, fmt.Sprintf("%d.%dC %d.%d%%",
			v.TemperatureInt, v.TemperatureFrac, v.HumidityInt, v.HumidityFrac))
	}
	if err := l.Panel.WriteAt(0, 0, fmt.Sprintf("Temp: %d.%dC", v.TemperatureInt, v.TemperatureFrac)); err != nil {
		return err
	}
	return l.Panel.WriteAt(0, 1, fmt.Sprintf("Hum: %d.%d%%", v.HumidityInt, v.HumidityFrac))
}

var _ Sink = &LCD{}
