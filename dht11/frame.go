// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"

	"github.com/GermanBionicSystems/dht11mon/common"
	"periph.io/x/conn/v3/physic"
)

const (
	// FrameBytes is the number of bytes the sensor transmits.
	FrameBytes = 5
	// FrameBits is the number of data bits in a complete transmission.
	FrameBits = FrameBytes * 8
)

// Frame is the raw transmission of one read cycle: humidity integer,
// humidity fraction, temperature integer, temperature fraction, checksum.
type Frame [FrameBytes]byte

// push shifts bit into the byte holding bit number n.
func (f *Frame) push(n int, bit bool) {
	f[n/8] <<= 1
	if bit {
		f[n/8] |= 1
	}
}

// Checksum returns the expected checksum of the four data bytes.
func (f Frame) Checksum() byte {
	return common.Sum8(f[:4])
}

// Valid reports whether the checksum byte matches the data bytes.
func (f Frame) Valid() bool {
	return f[4] == f.Checksum()
}

func (f Frame) String() string {
	return fmt.Sprintf("[0x%02x 0x%02x 0x%02x 0x%02x 0x%02x]", f[0], f[1], f[2], f[3], f[4])
}

// Reading is a decoded, checksum-verified measurement.
type Reading struct {
	HumidityInt     uint8
	HumidityFrac    uint8
	TemperatureInt  uint8
	TemperatureFrac uint8
}

// Decode validates a sampled frame and returns the reading it holds. bits is
// the number of data bits the sampler captured. Decode has no side effects.
func Decode(f Frame, bits int) (Reading, error) {
	if bits < FrameBits {
		return Reading{}, fmt.Errorf("%w: %d of %d", ErrInsufficientBits, bits, FrameBits)
	}
	if !f.Valid() {
		return Reading{}, fmt.Errorf("%w: frame %s, expected 0x%02x", ErrChecksumMismatch, f, f.Checksum())
	}
	return Reading{
		HumidityInt:     f[0],
		HumidityFrac:    f[1],
		TemperatureInt:  f[2],
		TemperatureFrac: f[3],
	}, nil
}

// Fahrenheit returns the temperature in degrees Fahrenheit. Only the integer
// Celsius part is converted.
func (r Reading) Fahrenheit() float64 {
	return float64(r.TemperatureInt)*9.0/5.0 + 32
}

// Celsius returns the temperature in degrees Celsius including the fraction
// byte as tenths.
func (r Reading) Celsius() float64 {
	return float64(r.TemperatureInt) + float64(r.TemperatureFrac)/10
}

// Humidity returns the relative humidity in percent including the fraction
// byte as tenths.
func (r Reading) Humidity() float64 {
	return float64(r.HumidityInt) + float64(r.HumidityFrac)/10
}

// Env stores the reading in env using periph units. Pressure is set to 0.
func (r Reading) Env(env *physic.Env) {
	env.Temperature = physic.ZeroCelsius +
		physic.Temperature(r.TemperatureInt)*physic.Celsius +
		physic.Temperature(r.TemperatureFrac)*(physic.Celsius/10)
	env.Humidity = physic.RelativeHumidity(r.HumidityInt)*physic.PercentRH +
		physic.RelativeHumidity(r.HumidityFrac)*(physic.PercentRH/10)
	env.Pressure = 0
}

// String returns the reading in the console format, for example
// "Humidity = 50.0 % Temperature = 24.0 *C (75.2 *F)".
func (r Reading) String() string {
	return fmt.Sprintf("Humidity = %d.%d %% Temperature = %d.%d *C (%.1f *F)",
		r.HumidityInt, r.HumidityFrac, r.TemperatureInt, r.TemperatureFrac, r.Fahrenheit())
}
