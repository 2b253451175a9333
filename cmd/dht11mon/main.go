// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht11mon reads a DHT11 temperature and humidity sensor every few seconds
// and reports each reading to the console, and optionally to a 16x2 LCD, a
// PNG file, an MQTT broker and a Prometheus endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht11mon/console"
	"github.com/GermanBionicSystems/dht11mon/dht11"
	"github.com/GermanBionicSystems/dht11mon/hd44780"
	"github.com/GermanBionicSystems/dht11mon/metrics"
	"github.com/GermanBionicSystems/dht11mon/mqttpub"
	"github.com/GermanBionicSystems/dht11mon/readout"
	"github.com/GermanBionicSystems/dht11mon/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	pin := flag.String("pin", "GPIO4", "GPIO line wired to the sensor data pin")
	interval := flag.Duration("interval", readout.DefaultInterval, "delay between two reads")
	lcd := flag.Bool("lcd", false, "report to a 16x2 LCD behind a PCF8574 backpack")
	bus := flag.String("bus", "", "I²C bus of the LCD, default is the first one")
	addr := flag.Uint("addr", uint(hd44780.DefaultAddress), "I²C address of the LCD backpack")
	clock := flag.Bool("clock", false, "show the time of the reading on the LCD")
	png := flag.String("png", "", "write every reading to this PNG file")
	broker := flag.String("mqtt", "", "MQTT broker to publish to, e.g. tcp://localhost:1883")
	topic := flag.String("topic", mqttpub.DefaultOpts.Topic, "MQTT topic")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9101")
	verbose := flag.Bool("v", false, "log every reading")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *interval < dht11.MinInterval {
		return fmt.Errorf("-interval must be at least %s", dht11.MinInterval)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := host.Init(); err != nil {
		return err
	}
	p := gpioreg.ByName(*pin)
	if p == nil {
		return fmt.Errorf("unknown pin %q", *pin)
	}
	sensor, err := dht11.New(p, nil)
	if err != nil {
		return err
	}
	defer sensor.Halt()

	c := console.New(nil)
	defer c.Halt()
	if err := c.Banner(); err != nil {
		return err
	}
	sinks := []readout.Sink{c}

	if *lcd {
		b, err := i2creg.Open(*bus)
		if err != nil {
			return err
		}
		defer b.Close()
		d, err := hd44780.NewPCF8574Backpack(b, uint16(*addr), 2, 16)
		if err != nil {
			return err
		}
		defer d.Halt()
		sinks = append(sinks, &readout.LCD{Panel: d, Clock: *clock})
	}

	if *png != "" {
		s, err := snapshot.New(&snapshot.Opts{W: snapshot.DefaultOpts.W, H: snapshot.DefaultOpts.H, Path: *png})
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
	}

	if *broker != "" {
		hostname, _ := os.Hostname()
		client, err := mqttpub.Connect(*broker, "dht11mon-"+hostname, 10*time.Second)
		if err != nil {
			return err
		}
		o := mqttpub.DefaultOpts
		o.Topic = *topic
		m, err := mqttpub.New(client, &o)
		if err != nil {
			return err
		}
		defer m.Halt()
		sinks = append(sinks, m)
		log.Info("publishing", "broker", *broker, "topic", *topic)
	}

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		s, err := metrics.New(reg)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("metrics listening", "addr", *metricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	poller := &readout.Poller{Sensor: sensor, Sinks: sinks, Interval: *interval, Logger: log}
	if err := poller.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("stopped")
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht11mon: %s.\n", err)
		os.Exit(1)
	}
}
