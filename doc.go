// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11mon is a monitor for the DHT11 temperature and humidity
// sensor on a Raspberry Pi.
//
// The dht11 package bit-bangs the single wire protocol and decodes frames.
// The readout package runs the poll loop and hands every result to sinks:
// console, hd44780 (16x2 LCD over I²C), snapshot (PNG and periph displays),
// mqttpub and metrics. cmd/dht11mon wires them together.
package dht11mon
