// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/dht11mon/hd44780"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Create a 16x2 display on a PCF8574 backpack and write a line on each row.
func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open default I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	lcd, err := hd44780.NewPCF8574Backpack(bus, hd44780.DefaultAddress, 2, 16)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(lcd)

	if err := lcd.WriteAt(0, 0, "Temp: 24.0C"); err != nil {
		log.Fatal(err)
	}
	if err := lcd.WriteAt(0, 1, "Hum: 50.0%"); err != nil {
		log.Fatal(err)
	}
}
