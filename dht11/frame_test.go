// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestDecode(t *testing.T) {
	r, err := Decode(Frame{0x32, 0x00, 0x18, 0x00, 0x4a}, FrameBits)
	if err != nil {
		t.Fatal(err)
	}
	expected := Reading{HumidityInt: 50, HumidityFrac: 0, TemperatureInt: 24, TemperatureFrac: 0}
	if r != expected {
		t.Errorf("decoded %#v expected %#v", r, expected)
	}
	if f := r.Fahrenheit(); math.Abs(f-75.2) > 1e-9 {
		t.Errorf("expected 75.2 *F, received %f", f)
	}

	_, err = Decode(Frame{0x32, 0x00, 0x18, 0x00, 0x4b}, FrameBits)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, received %v", err)
	}
}

func TestDecodeBitCount(t *testing.T) {
	f := Frame{0x32, 0x00, 0x18, 0x00, 0x4a}
	if _, err := Decode(f, FrameBits-1); !errors.Is(err, ErrInsufficientBits) {
		t.Errorf("39 bits: expected ErrInsufficientBits, received %v", err)
	}
	if _, err := Decode(f, 0); !errors.Is(err, ErrInsufficientBits) {
		t.Errorf("0 bits: expected ErrInsufficientBits, received %v", err)
	}
	if _, err := Decode(f, FrameBits); err != nil {
		t.Errorf("40 bits: unexpected error %v", err)
	}
	// The bit count is checked before the checksum.
	if _, err := Decode(Frame{0, 0, 0, 0, 1}, 12); !errors.Is(err, ErrInsufficientBits) {
		t.Errorf("expected ErrInsufficientBits, received %v", err)
	}
}

func TestDecodeChecksum(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for range 1000 {
		var f Frame
		for ix := range 4 {
			f[ix] = byte(rnd.Intn(256))
		}
		sum := (int(f[0]) + int(f[1]) + int(f[2]) + int(f[3])) % 256
		f[4] = byte(sum)
		if _, err := Decode(f, FrameBits); err != nil {
			t.Fatalf("frame %s: unexpected error %v", f, err)
		}
		for bit := range 8 {
			bad := f
			bad[4] ^= 1 << bit
			if _, err := Decode(bad, FrameBits); !errors.Is(err, ErrChecksumMismatch) {
				t.Fatalf("frame %s: expected ErrChecksumMismatch, received %v", bad, err)
			}
		}
	}
}

func TestDecodeIdempotent(t *testing.T) {
	f := Frame{0x25, 0x03, 0x16, 0x07, 0x45}
	r1, err1 := Decode(f, FrameBits)
	r2, err2 := Decode(f, FrameBits)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors %v %v", err1, err2)
	}
	if r1 != r2 {
		t.Errorf("decoding twice gave %#v and %#v", r1, r2)
	}
}

func TestReadingFormat(t *testing.T) {
	r := Reading{HumidityInt: 50, HumidityFrac: 0, TemperatureInt: 24, TemperatureFrac: 3}
	expected := "Humidity = 50.0 % Temperature = 24.3 *C (75.2 *F)"
	if s := r.String(); s != expected {
		t.Errorf("expected %q received %q", expected, s)
	}
	if c := r.Celsius(); math.Abs(c-24.3) > 1e-9 {
		t.Errorf("expected 24.3 *C, received %f", c)
	}
	if h := r.Humidity(); math.Abs(h-50) > 1e-9 {
		t.Errorf("expected 50%%, received %f", h)
	}
}

func TestReadingEnv(t *testing.T) {
	r := Reading{HumidityInt: 34, HumidityFrac: 8, TemperatureInt: 23, TemperatureFrac: 9}
	env := physic.Env{Pressure: physic.KiloPascal}
	r.Env(&env)
	if expected := physic.ZeroCelsius + 23_900*physic.MilliKelvin; env.Temperature != expected {
		t.Errorf("temperature %s(%d) != %s(%d)", env.Temperature, env.Temperature, expected, expected)
	}
	if expected := 34*physic.PercentRH + 8*physic.PercentRH/10; env.Humidity != expected {
		t.Errorf("humidity %s(%d) != %s(%d)", env.Humidity, env.Humidity, expected, expected)
	}
	if env.Pressure != 0 {
		t.Error("this device doesn't measure pressure")
	}
}

func TestFrameString(t *testing.T) {
	f := Frame{0x32, 0x00, 0x18, 0x00, 0x4a}
	if s := f.String(); s != "[0x32 0x00 0x18 0x00 0x4a]" {
		t.Errorf("unexpected String() %q", s)
	}
	if f.Checksum() != 0x4a || !f.Valid() {
		t.Error("expected a valid frame")
	}
}
