// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 reads an Aosong DHT11 temperature/humidity sensor by
// bit-banging its single-wire data line.
//
// The host pulls the line low for 18ms to wake the sensor, releases it, and
// then times every level change the sensor produces. The sensor answers with
// a low/high acknowledgment and then 40 bits, each a ~50µs low phase followed
// by a high phase of ~28µs for a 0 or ~70µs for a 1. The 40 bits form 5
// bytes: humidity integer, humidity fraction, temperature integer,
// temperature fraction and an 8-bit checksum.
//
// Pulse durations are measured in ticks of a microsecond busy-wait, so the
// thresholds in Timing are expressed in ticks rather than time.Duration.
// On a Raspberry Pi the GPIO read plus the busy-wait makes a tick noticeably
// longer than 1µs, which is why the default 16 tick threshold separates the
// two pulse widths.
//
// The dht11.Dev type implements the physic.SenseEnv interface. The pressure
// value is always 0.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11
