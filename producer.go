// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package mpscring

import "fmt"

// Producer reserves and publishes contiguous bursts of elements. Each
// Producer returned by New is bound to one producer record and must
// only ever be used by one goroutine at a time; independent producers
// may run concurrently with each other and with the Consumer.
type Producer[T any] struct {
	core  *core[T]
	index int
}

// ProducerGuard is an exclusive, uninitialized view over a reservation
// returned by Acquire. Call Close (exactly once) when done writing to
// publish the burst to the consumer. Go has no destructors, so unlike
// the reference implementation's scope-exit guard, Close must be
// called explicitly — forgetting it leaves the reservation unpublished
// forever and the producer permanently unable to Acquire again.
type ProducerGuard[T any] struct {
	Slice    []T
	producer *Producer[T]
	closed   bool
}

// Close publishes the reservation: a store fence (implemented via the
// atomic release-store below) ensures every write into Slice is
// globally visible before the reservation disappears from the
// consumer's scan.
func (g *ProducerGuard[T]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	record := &g.producer.core.records[g.producer.index]
	// The atomic store below is the fence: all prior plain writes into
	// Slice happen-before this store in program order, and the
	// consumer's atomic load of the same word happens-after it observes
	// maxOffset, giving the required release/acquire pairing.
	record.store(maxOffset)
}

// Acquire reserves count consecutive slots for the calling producer.
// count must be greater than zero and at most the buffer's capacity.
//
// Acquire returns (nil, false) when the reservation cannot be granted
// without the producer catching up with the consumer's written cursor;
// the caller decides whether and how to retry. Acquire never blocks.
//
// Calling Acquire again before closing a previously returned guard is a
// programmer error; it panics.
func (p *Producer[T]) Acquire(count uint64) (*ProducerGuard[T], bool) {
	c := p.core
	record := &c.records[p.index]

	if count == 0 {
		panic(fmt.Errorf("mpscring: Acquire count must be positive"))
	}
	if offsetWord(count) > c.capacity {
		panic(fmt.Errorf("mpscring: Acquire count %d exceeds capacity %d", count, c.capacity))
	}
	if !record.idle() {
		panic(fmt.Errorf("mpscring: producer %d already holds an unreleased reservation", p.index))
	}

	var target, nextOff offsetWord

	for {
		seen := c.stableNext()
		nextOff = seen.offset()
		debugAssert(nextOff < c.capacity, "next offset %d equals or exceeds capacity %d", nextOff, c.capacity)
		record.store(nextOff | wrapLockBit)

		target = nextOff + offsetWord(count)
		written := c.written_()

		if nextOff < written && target >= written {
			record.store(maxOffset)
			return nil, false
		}

		if target >= c.capacity {
			exceed := target > c.capacity
			if exceed {
				target = wrapLockBit | offsetWord(count)
			} else {
				target = 0
			}
			if target.offset() >= written {
				record.store(maxOffset)
				return nil, false
			}
			target = withWrapTick(seen, target)
		} else {
			target = withSameWrap(seen, target)
		}

		if c.next.CompareAndSwap(uint64(seen), uint64(target)) {
			break
		}
	}

	record.store(nextOff)

	offset := nextOff
	if target.locked() {
		// This producer is the wrap initiator: lock `end` at the
		// pre-wrap offset, publish it, then release the lock on `next`.
		debugAssert(c.written_() <= nextOff, "written %d ahead of wrap offset %d", c.written_(), nextOff)
		debugAssert(c.end_() == maxOffset, "wrap started with end already set to %d", c.end_())
		c.end.Store(uint64(nextOff))
		c.next.Store(uint64(target & wrapLockMask))
		offset = 0
	}

	debugAssert(target.offset() <= c.capacity, "target offset %d exceeds capacity %d", target.offset(), c.capacity)

	return &ProducerGuard[T]{
		Slice:    c.data[offset : offset+offsetWord(count)],
		producer: p,
	}, true
}
