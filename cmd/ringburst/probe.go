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
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ringwave/mpscring"
	"github.com/ringwave/mpscring/cmd/ringburst/mmapstore"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "acquire and release one burst, printing what happened",
	RunE:  runProbe,
}

func init() {
	flags := probeCmd.Flags()
	flags.Uint64("capacity", 0, "ring buffer capacity in elements")
	flags.Uint64("burst", 4, "elements to acquire in the probe burst")
	flags.Bool("mmap", false, "also map and print a demo mmap region; the ring itself stays on the Go heap")
}

func runProbe(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		return err
	}
	burst := v.GetUint64("burst")
	if burst == 0 || burst > cfg.Capacity {
		return fmt.Errorf("probe: burst %d must be in (0, capacity=%d]", burst, cfg.Capacity)
	}

	runID := uuid.NewString()
	fmt.Printf("probe run %s: capacity=%d burst=%d mmap=%v\n", runID, cfg.Capacity, burst, cfg.UseMmap)

	if cfg.UseMmap {
		// Demonstrate the data region living in OS-backed, GC-free
		// memory; the mpscring core itself is never handed this region
		// (it stays portable/GC-backed per its own non-goals), this is
		// purely an illustration alongside a real probe.
		region, err := mmapstore.New(int(cfg.Capacity) * 8)
		if err != nil {
			return err
		}
		defer region.Close()
		fmt.Printf("mmap region: %d bytes at %p\n", len(region.Bytes()), &region.Bytes()[0])
	}

	consumer, producers := mpscring.New[entry](cfg.Capacity, 1)
	p := producers[0]

	guard, ok := p.Acquire(burst)
	if !ok {
		fmt.Println("acquire denied: buffer has no room for this burst yet")
		return nil
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	for i := range guard.Slice {
		id, err := ulid.New(ulid.Now(), entropy)
		if err != nil {
			return fmt.Errorf("probe: generate ulid: %w", err)
		}
		guard.Slice[i] = entry{id: id}
	}
	guard.Close()

	cg := consumer.Consume()
	fmt.Printf("consumed %d elements:\n", len(cg.Slice))
	for _, e := range cg.Slice {
		fmt.Printf("  %s\n", e.id.String())
	}
	cg.Close()

	return nil
}

// entry is the probe command's element type: a single ULID stamp, so a
// human can see at a glance that every slot the producer wrote is the
// one the consumer reads back, in order, exactly once.
type entry struct {
	id ulid.ULID
}
