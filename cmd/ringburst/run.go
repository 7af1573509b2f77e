// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package main

import (
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ringwave/mpscring"
)

// payload is the element type ringburst pushes through the buffer: a
// fixed-size record carrying the producer index and a per-producer
// sequence number. The consumer counts released elements; it does not
// inspect or log their contents.
type payload struct {
	producer int
	seq      uint64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "drive producers and a consumer against an mpscring buffer and report throughput",
	RunE:  runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.Uint64("capacity", 0, "ring buffer capacity in elements")
	flags.Int("producers", 0, "number of concurrent producers")
	flags.Int("burst-min", 0, "minimum elements per Acquire")
	flags.Int("burst-max", 0, "maximum elements per Acquire")
	flags.String("duration", "", "how long to run, e.g. 5s")
	flags.String("log-level", "", "debug|info|warn|error")
	flags.String("log-path", "", "log file path; stdout if empty")
	flags.String("metrics-addr", "", "address to serve /metrics on")
}

func runRun(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		return err
	}

	duration, err := time.ParseDuration(cfg.Duration)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	runID := uuid.NewString()
	metrics := NewMetrics(runID)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Errorw("metrics server stopped", "error", err)
		}
	}()
	defer server.Close()

	sugar.Infow("starting run",
		"run_id", runID,
		"capacity", cfg.Capacity,
		"producers", cfg.Producers,
		"duration", duration.String(),
	)

	consumer, producers := mpscring.New[payload](cfg.Capacity, cfg.Producers)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	var totalMoved int64

	wg.Add(len(producers))
	for i, p := range producers {
		i, p := i, p
		go func() {
			defer wg.Done()
			driveProducer(i, p, cfg, metrics, stop)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		driveConsumer(consumer, metrics, &totalMoved, stop)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	sugar.Infow("run complete",
		"run_id", runID,
		"elements_moved", atomic.LoadInt64(&totalMoved),
	)
	return nil
}

func driveProducer(index int, p *mpscring.Producer[payload], cfg *Config, metrics *Metrics, stop <-chan struct{}) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(index)))
	var seq uint64

	for {
		select {
		case <-stop:
			return
		default:
		}

		span := cfg.BurstMax - cfg.BurstMin + 1
		count := uint64(cfg.BurstMin + rng.Intn(span))

		guard, ok := p.Acquire(count)
		if !ok {
			metrics.acquiresDenied.Inc()
			continue
		}
		metrics.acquiresOK.Inc()

		for i := range guard.Slice {
			guard.Slice[i] = payload{producer: index, seq: seq}
			seq++
		}
		guard.Close()
	}
}

func driveConsumer(c *mpscring.Consumer[payload], metrics *Metrics, totalMoved *int64, stop <-chan struct{}) {
	for {
		guard := c.Consume()
		if len(guard.Slice) == 0 {
			metrics.consumerIdle.Inc()
			guard.Close()
		} else {
			atomic.AddInt64(totalMoved, int64(len(guard.Slice)))
			metrics.elementsMoved.Add(float64(len(guard.Slice)))
			guard.Close()
		}

		select {
		case <-stop:
			return
		default:
		}
	}
}

func newLogger(cfg *Config) (*zap.Logger, error) {
	return buildLogger(cfg.LogLevel, cfg.LogPath)
}
