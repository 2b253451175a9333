// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import "errors"

var (
	// ErrLineTimeout is returned when the line did not change level within
	// Timing.MaxTicks during the sensor's acknowledgment. The sensor is
	// missing, unpowered, or did not see the start pulse.
	ErrLineTimeout = errors.New("dht11: line timeout")
	// ErrInsufficientBits is returned when the transmission ended before 40
	// data bits were captured.
	ErrInsufficientBits = errors.New("dht11: insufficient bits")
	// ErrChecksumMismatch is returned when the fifth byte is not the 8-bit
	// sum of the first four.
	ErrChecksumMismatch = errors.New("dht11: checksum mismatch")
)
