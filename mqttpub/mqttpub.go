// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mqttpub publishes read results to an MQTT broker as JSON.
//
// Every result is published, failures included, so a subscriber sees the
// cadence of the poll loop and can alert on a run of invalid reads.
package mqttpub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/dht11mon/readout"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher is the part of mqtt.Client used by Dev.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Opts represents the publishing options.
type Opts struct {
	// Topic receives every result.
	Topic string
	// QoS is the MQTT quality of service level, 0 to 2.
	QoS byte
	// Retained asks the broker to keep the last result for new subscribers.
	Retained bool
	// Timeout bounds the wait for the broker to acknowledge a publish.
	Timeout time.Duration
}

// DefaultOpts publishes on dht11/reading at QoS 0.
var DefaultOpts = Opts{
	Topic:   "dht11/reading",
	QoS:     0,
	Timeout: 5 * time.Second,
}

// Message is the JSON payload of one result.
type Message struct {
	Time         time.Time `json:"time"`
	Valid        bool      `json:"valid"`
	Humidity     float64   `json:"humidity"`
	TemperatureC float64   `json:"temperature_c"`
	TemperatureF float64   `json:"temperature_f"`
	Error        string    `json:"error,omitempty"`
}

// NewMessage converts a result. The values of a failed read are zero.
func NewMessage(r readout.Result) Message {
	m := Message{Time: r.Time, Valid: r.OK()}
	if !m.Valid {
		m.Error = r.Err.Error()
		return m
	}
	m.Humidity = r.Reading.Humidity()
	m.TemperatureC = r.Reading.Celsius()
	m.TemperatureF = r.Reading.Fahrenheit()
	return m
}

// Dev is a readout.Sink publishing to a broker.
type Dev struct {
	c    Publisher
	opts Opts
}

// New returns a sink publishing through c. The Opts can be nil.
func New(c Publisher, opts *Opts) (*Dev, error) {
	if c == nil {
		return nil, errors.New("mqttpub: nil client")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Topic == "" {
		return nil, errors.New("mqttpub: empty topic")
	}
	if o.QoS > 2 {
		return nil, fmt.Errorf("mqttpub: invalid QoS %d", o.QoS)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultOpts.Timeout
	}
	return &Dev{c: c, opts: o}, nil
}

// Connect returns a client connected to broker, for example
// "tcp://localhost:1883". The client reconnects on its own after a lost
// connection.
func Connect(broker, clientID string, timeout time.Duration) (mqtt.Client, error) {
	o := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout)
	c := mqtt.NewClient(o)
	t := c.Connect()
	if !t.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqttpub: connecting to %s: timed out after %s", broker, timeout)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqttpub: connecting to %s: %w", broker, err)
	}
	return c, nil
}

func (d *Dev) String() string {
	return "mqtt: " + d.opts.Topic
}

// Report implements readout.Sink.
func (d *Dev) Report(r readout.Result) error {
	payload, err := json.Marshal(NewMessage(r))
	if err != nil {
		return fmt.Errorf("mqttpub: %w", err)
	}
	t := d.c.Publish(d.opts.Topic, d.opts.QoS, d.opts.Retained, payload)
	if !t.WaitTimeout(d.opts.Timeout) {
		return fmt.Errorf("mqttpub: publish to %s timed out after %s", d.opts.Topic, d.opts.Timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqttpub: publish to %s: %w", d.opts.Topic, err)
	}
	return nil
}

// Halt disconnects the client when it is an mqtt.Client.
func (d *Dev) Halt() error {
	if c, ok := d.c.(mqtt.Client); ok {
		c.Disconnect(250)
	}
	return nil
}

var _ readout.Sink = &Dev{}
