// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console implements a readout.Sink that prints one line per read
// cycle to the terminal (stdout).
//
// Useful while you are waiting for the LCD backpack to come by mail. When the
// output is a terminal, each line starts with a green or red ANSI block so a
// failing sensor stands out in a scrolling log.
package console

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/GermanBionicSystems/dht11mon/readout"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Banner is printed once by the monitor before the first reading.
const Banner = "Interfacing Temperature and Humidity Sensor (DHT11) With Raspberry Pi"

var (
	colorOK      = color.NRGBA{0x00, 0xc0, 0x00, 0xff}
	colorInvalid = color.NRGBA{0xc0, 0x00, 0x00, 0xff}
)

// Opts represents the options available for the console.
type Opts struct {
	// W receives the output. Defaults to stdout through go-colorable so ANSI
	// codes also work on Windows consoles.
	W io.Writer
	// Color prefixes every line with a status block.
	Color bool
	// Palette maps the status colors to ANSI codes. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts returns options writing to stdout, with the status block
// enabled when stdout is a terminal.
func DefaultOpts() *Opts {
	fd := os.Stdout.Fd()
	return &Opts{Color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// Dev prints results to a terminal.
type Dev struct {
	w       io.Writer
	color   bool
	palette *ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev printing to the console. The Opts can be nil.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = DefaultOpts()
	}
	d := &Dev{w: opts.W, color: opts.Color, palette: opts.Palette}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.palette == nil {
		d.palette = ansi256.Default
	}
	return d
}

func (d *Dev) String() string {
	return "Console"
}

// Banner prints the start-up banner.
func (d *Dev) Banner() error {
	_, err := fmt.Fprintln(d.w, Banner)
	return err
}

// Report implements readout.Sink. A valid reading prints as
// "Humidity = 50.0 % Temperature = 24.0 *C (75.2 *F)", a failure as
// readout.InvalidText.
func (d *Dev) Report(r readout.Result) error {
	d.buf.Reset()
	text := readout.InvalidText
	c := colorInvalid
	if r.OK() {
		text = r.Reading.String()
		c = colorOK
	}
	if d.color {
		_, _ = d.buf.WriteString(d.palette.Block(c))
		_, _ = d.buf.WriteString("\033[0m ")
	}
	_, _ = d.buf.WriteString(text)
	_ = d.buf.WriteByte('\n')
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell prompt is not corrupted.
func (d *Dev) Halt() error {
	if !d.color {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

var _ readout.Sink = &Dev{}
var _ fmt.Stringer = &Dev{}
