// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package snapshot renders read results as images.
//
// Each result is drawn on a small canvas sized for a 128x64 OLED. The image
// can be pushed to any periph display.Drawer, written to a PNG file that a
// kiosk page or e-paper refresher picks up, or both.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/GermanBionicSystems/dht11mon/readout"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for the renderer.
type Opts struct {
	// W and H are the canvas size in pixels.
	W, H int
	// FontSize is the size of the value lines in points at 72 DPI.
	FontSize float64
	// Path, when set, receives a PNG of every result.
	Path string
	// Drawer, when set, receives every rendered image.
	Drawer display.Drawer
}

// DefaultOpts renders for a 128x64 display.
var DefaultOpts = Opts{
	W:        128,
	H:        64,
	FontSize: 18,
}

// Dev renders results.
type Dev struct {
	opts  Opts
	large font.Face
	small font.Face

	mu   sync.Mutex
	last image.Image
}

// New returns a renderer. The Opts can be nil.
func New(opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Drawer != nil && (o.W == 0 || o.H == 0) {
		b := o.Drawer.Bounds()
		o.W, o.H = b.Dx(), b.Dy()
	}
	if o.W <= 0 || o.H <= 0 {
		return nil, fmt.Errorf("snapshot: invalid canvas %dx%d", o.W, o.H)
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultOpts.FontSize
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return &Dev{
		opts:  o,
		large: truetype.NewFace(f, &truetype.Options{Size: o.FontSize}),
		small: truetype.NewFace(f, &truetype.Options{Size: o.FontSize / 2}),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("snapshot: %dx%d", d.opts.W, d.opts.H)
}

// Render draws r: temperature and humidity on two lines above the time of
// the reading, or readout.InvalidText in red.
func (d *Dev) Render(r readout.Result) image.Image {
	w, h := float64(d.opts.W), float64(d.opts.H)
	dc := gg.NewContext(d.opts.W, d.opts.H)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetFontFace(d.large)
	if r.OK() {
		v := r.Reading
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(fmt.Sprintf("%d.%d °C", v.TemperatureInt, v.TemperatureFrac), w/2, h*0.25, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d.%d %%RH", v.HumidityInt, v.HumidityFrac), w/2, h*0.6, 0.5, 0.5)
	} else {
		dc.SetRGB(1, 0.2, 0.2)
		dc.DrawStringAnchored(readout.InvalidText, w/2, h*0.4, 0.5, 0.5)
	}
	if !r.Time.IsZero() {
		dc.SetFontFace(d.small)
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.DrawStringAnchored(r.Time.Format("15:04:05"), w/2, h*0.9, 0.5, 0.5)
	}
	return dc.Image()
}

// Report implements readout.Sink.
func (d *Dev) Report(r readout.Result) error {
	img := d.Render(r)
	d.mu.Lock()
	d.last = img
	d.mu.Unlock()

	var err error
	if d.opts.Path != "" {
		if e := gg.SavePNG(d.opts.Path, img); e != nil {
			err = fmt.Errorf("snapshot: %w", e)
		}
	}
	if d.opts.Drawer != nil {
		if e := d.opts.Drawer.Draw(d.opts.Drawer.Bounds(), img, image.Point{}); e != nil {
			err = errors.Join(err, fmt.Errorf("snapshot: %w", e))
		}
	}
	return err
}

// EncodePNG writes the last rendered image to w.
func (d *Dev) EncodePNG(w io.Writer) error {
	d.mu.Lock()
	img := d.last
	d.mu.Unlock()
	if img == nil {
		return errors.New("snapshot: nothing rendered yet")
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}

var _ readout.Sink = &Dev{}
