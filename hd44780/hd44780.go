// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls a Hitachi HD44780 character LCD wired to a PCF8574
// I²C backpack, as sold with LCD1602 and LCD2004 modules.
//
// The backpack maps one written byte straight onto the LCD pins: P0 is RS,
// P2 is Enable, P3 drives the backlight transistor and P4-P7 are D4-D7. The
// display runs in 4 bit mode, so every byte is sent as two nibbles, each
// latched by raising and then dropping Enable.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package hd44780

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

type writeMode byte

const (
	modeCommand writeMode = 0x00
	modeData    writeMode = 0x01

	// DefaultAddress is the address of PCF8574 backpacks with A0-A2 open.
	DefaultAddress uint16 = 0x27

	bitEnable    byte = 0x04
	bitBacklight byte = 0x08

	cmdClear          byte = 0x01
	cmdDisplayControl byte = 0x08
	cmdDisplayOn      byte = 0x04
	cmdSetDDRAM       byte = 0x80
	rowOffset         byte = 0x40
)

const (
	delayEnable time.Duration = 2 * time.Millisecond
	delayInit   time.Duration = 5 * time.Millisecond
	delayClear  time.Duration = 2 * time.Millisecond
)

// initScript is the power-on sequence. 0x33 and 0x32 force 4 bit mode from
// any state, 0x28 selects two lines with a 5x8 font, 0x0C turns the display
// on with the cursor hidden and 0x01 clears it. Changing it breaks modules
// that are already wired.
var initScript = []byte{0x33, 0x32, 0x28, 0x0C, 0x01}

// Dev is an HD44780 display behind a PCF8574 backpack.
type Dev struct {
	mu        sync.Mutex
	d         *i2c.Dev
	rows      int
	cols      int
	backlight bool
}

// NewPCF8574Backpack returns a display on bus at address, initialized, cleared
// and with the backlight on. Two row displays are supported, rows must be 1
// or 2.
func NewPCF8574Backpack(bus i2c.Bus, address uint16, rows, cols int) (*Dev, error) {
	if rows < 1 || rows > 2 {
		return nil, fmt.Errorf("hd44780: unsupported row count %d", rows)
	}
	if cols < 1 || cols > 40 {
		return nil, fmt.Errorf("hd44780: unsupported column count %d", cols)
	}
	lcd := &Dev{
		d:         &i2c.Dev{Bus: bus, Addr: address},
		rows:      rows,
		cols:      cols,
		backlight: true,
	}
	return lcd, lcd.init()
}

// Clear clears the screen and moves the cursor to the first position.
func (lcd *Dev) Clear() error {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	err := lcd.sendByte(cmdClear, modeCommand)
	time.Sleep(delayClear)
	return err
}

// WriteAt writes text starting at col, row. Both are zero based and are
// clamped to the display size. Text that runs past the last column is sent
// anyway; the controller wraps it into its own memory layout.
func (lcd *Dev) WriteAt(col, row int, text string) error {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	col = max(0, min(col, lcd.cols-1))
	row = max(0, min(row, lcd.rows-1))
	addr := cmdSetDDRAM + rowOffset*byte(row) + byte(col)
	if err := lcd.sendByte(addr, modeCommand); err != nil {
		return err
	}
	for ix := range len(text) {
		if err := lcd.sendByte(text[ix], modeData); err != nil {
			return err
		}
	}
	return nil
}

// Write writes p at the current cursor position.
func (lcd *Dev) Write(p []byte) (n int, err error) {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	for _, b := range p {
		if err = lcd.sendByte(b, modeData); err != nil {
			return
		}
		n++
	}
	return
}

// WriteString writes text at the current cursor position.
func (lcd *Dev) WriteString(text string) (int, error) {
	return lcd.Write([]byte(text))
}

// Display turns the display on or off. The content is retained.
func (lcd *Dev) Display(on bool) error {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	cmd := cmdDisplayControl
	if on {
		cmd |= cmdDisplayOn
	}
	return lcd.sendByte(cmd, modeCommand)
}

// Backlight turns the backlight on or off. Every byte written afterward
// carries the new state.
func (lcd *Dev) Backlight(on bool) error {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	lcd.backlight = on
	return lcd.writeWord(0)
}

// Rows returns the number of rows the display supports.
func (lcd *Dev) Rows() int {
	return lcd.rows
}

// Cols returns the number of columns the display supports.
func (lcd *Dev) Cols() int {
	return lcd.cols
}

// Halt clears the display and turns the backlight off.
func (lcd *Dev) Halt() error {
	return errors.Join(lcd.Clear(), lcd.Backlight(false))
}

func (lcd *Dev) String() string {
	return fmt.Sprintf("hd44780: %s - Rows: %d, Cols: %d", lcd.d, lcd.rows, lcd.cols)
}

func (lcd *Dev) init() error {
	lcd.mu.Lock()
	defer lcd.mu.Unlock()
	for _, cmd := range initScript {
		if err := lcd.sendByte(cmd, modeCommand); err != nil {
			return fmt.Errorf("hd44780: init: %w", err)
		}
		time.Sleep(delayInit)
	}
	// Leave all lines idle with the backlight on.
	return lcd.writeWord(0)
}

// sendByte sends value as two nibbles, high nibble first.
func (lcd *Dev) sendByte(value byte, mode writeMode) error {
	if err := lcd.writeNibble(value&0xf0, mode); err != nil {
		return err
	}
	return lcd.writeNibble((value&0x0f)<<4, mode)
}

// writeNibble presents the nibble in the upper bits with Enable high, waits
// for the controller to settle, then drops Enable to latch it.
func (lcd *Dev) writeNibble(nibble byte, mode writeMode) error {
	buf := nibble | bitEnable | byte(mode)
	if err := lcd.writeWord(buf); err != nil {
		return err
	}
	time.Sleep(delayEnable)
	return lcd.writeWord(buf &^ bitEnable)
}

// writeWord writes one byte to the backpack, applying the backlight bit.
func (lcd *Dev) writeWord(value byte) error {
	if lcd.backlight {
		value |= bitBacklight
	} else {
		value &^= bitBacklight
	}
	if err := lcd.d.Tx([]byte{value}, nil); err != nil {
		return fmt.Errorf("hd44780: %w", err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
