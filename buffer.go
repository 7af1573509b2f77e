// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package mpscring

import (
	"fmt"
	"sync/atomic"
)

// core is the shared state referenced by the Consumer and every
// Producer: the header fields plus the producer-record region and the
// data region, kept as three separate slices on one struct rather than
// a single raw byte allocation carved up with unsafe.Pointer arithmetic
// — Go's slice bounds checks and generic element storage don't compose
// safely with manual byte-offset casting on every hot-path access.
//
// next is the only field mutated by more than one goroutine concurrently
// (every producer CAS-updates it); end and written are mutated only by
// the consumer or the single wrap-initiating producer at a time, but are
// still atomic words so the consumer's and producers' reads observe a
// consistent value without a data race.
type core[T any] struct {
	capacity offsetWord
	next     atomic.Uint64
	end      atomic.Uint64
	written  atomic.Uint64

	records []producerRecord
	data    []T
}

// New creates a ring buffer with room for capacity elements, shared
// by numProducers independent producers and exactly one consumer.
//
// It panics if capacity or numProducers is not positive, or if capacity
// does not fit the offset word's 32-bit offset field.
func New[T any](capacity uint64, numProducers int) (*Consumer[T], []*Producer[T]) {
	if capacity == 0 {
		panic(fmt.Errorf("mpscring: capacity must be positive"))
	}
	if offsetWord(capacity) >= offsetMask {
		panic(fmt.Errorf("mpscring: capacity %d exceeds the maximum addressable offset", capacity))
	}
	if numProducers <= 0 {
		panic(fmt.Errorf("mpscring: numProducers must be positive, got %d", numProducers))
	}

	c := &core[T]{
		capacity: offsetWord(capacity),
		records:  make([]producerRecord, numProducers),
		data:     make([]T, capacity),
	}
	c.end.Store(uint64(maxOffset))
	for i := range c.records {
		c.records[i].store(maxOffset)
	}

	producers := make([]*Producer[T], numProducers)
	for i := range producers {
		producers[i] = &Producer[T]{core: c, index: i}
	}

	return &Consumer[T]{core: c}, producers
}

// stableNext spins until the wrap lock bit clears on `next`, then
// returns the stable value. This and stableSeen are the only places
// producers and the consumer wait for one another; this wait is bounded by the small
// constant amount of work the wrap-initiating producer performs while
// holding the lock (store `end`, fence, clear the bit).
func (c *core[T]) stableNext() offsetWord {
	b := newBackoff()
	for {
		n := offsetWord(c.next.Load())
		if !n.locked() {
			return n
		}
		b.spin()
	}
}

// stableSeen spins until the wrap lock bit clears on a producer
// record's seen value, then returns the stable value.
func (c *core[T]) stableSeen(r *producerRecord) offsetWord {
	b := newBackoff()
	for {
		s := r.load()
		if !s.locked() {
			return s
		}
		b.spin()
	}
}

func (c *core[T]) written_() offsetWord { return offsetWord(c.written.Load()) }
func (c *core[T]) end_() offsetWord     { return offsetWord(c.end.Load()) }
