// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package mpscring

// Consumer drains contiguous ranges that span everything known-complete
// across every producer. There is exactly one Consumer per ring buffer;
// it must only ever be used by one goroutine at a time.
type Consumer[T any] struct {
	core *core[T]
}

// ConsumerGuard is a read-only view over the range returned by Consume.
// Closing it (the default, via Close) commits the whole range back to
// producers. Call ReleaseFewer first to commit only a prefix, when the
// caller did not finish processing the whole range.
type ConsumerGuard[T any] struct {
	Slice    []T
	consumer *Consumer[T]
	released bool
}

// Close releases every element in Slice, advancing the consumer's
// written cursor by len(Slice). Calling Close more than once is a no-op.
func (g *ConsumerGuard[T]) Close() {
	if g.released {
		return
	}
	g.released = true
	g.consumer.release(uint64(len(g.Slice)))
}

// ReleaseFewer releases only the first n elements of Slice, leaving the
// remainder to be re-offered on the next Consume call. n must not
// exceed len(Slice). After ReleaseFewer, Close is a no-op.
func (g *ConsumerGuard[T]) ReleaseFewer(n uint64) {
	if g.released {
		return
	}
	if n > uint64(len(g.Slice)) {
		panic(errReleaseFewerTooLarge(n, len(g.Slice)))
	}
	g.released = true
	g.consumer.release(n)
}

// Consume returns the largest contiguous range of elements that is
// currently safe to read, starting from the consumer's current written
// cursor. The returned guard's Slice is empty when no new data is
// available. Consume never blocks and never spans a wrap: a wrap in
// progress is surfaced as two successive Consume calls, the tail of the
// old range and then, once released, the fresh range starting at 0.
func (c *Consumer[T]) Consume() *ConsumerGuard[T] {
	count, offset := c.core.consume()
	return &ConsumerGuard[T]{
		Slice:    c.core.data[offset : offset+count],
		consumer: c,
	}
}

func (c *Consumer[T]) release(n uint64) {
	c.core.release(offsetWord(n))
}

// consume implements C6's scan: observe `next`, scan every producer's
// `seen` for the smallest value not behind `written`, and resolve the
// wrap case (a producer's wrap region is pending until the consumer has
// drained up to `end` and every producer's seen is clear).
func (c *core[T]) consume() (offsetWord, offsetWord) {
	written := c.written_()

	for {
		nextOff := c.stableNext().offset()
		if nextOff == written {
			return 0, written
		}

		ready := maxOffset
		for i := range c.records {
			s := c.stableSeen(&c.records[i])
			if s >= written {
				if s < ready {
					ready = s
				}
			}
		}

		if nextOff < written {
			end := c.end_()
			if end > c.capacity {
				end = c.capacity
			}

			if ready == maxOffset && written == end {
				if c.end_() != maxOffset {
					c.end.Store(uint64(maxOffset))
				}
				written = 0
				c.written.Store(0)
				continue
			}

			if end < ready {
				ready = end
			}
		} else {
			if nextOff < ready {
				ready = nextOff
			}
		}

		return ready - written, written
	}
}

// release advances `written` by count, wrapping to 0 if it reaches
// capacity. Only the consumer ever calls this.
func (c *core[T]) release(count offsetWord) {
	debugAssert(c.written_() <= c.capacity, "written %d exceeds capacity %d", c.written_(), c.capacity)
	written := c.written_() + count
	debugAssert(written <= c.capacity, "release advances written to %d, past capacity %d", written, c.capacity)
	if written == c.capacity {
		written = 0
	}
	c.written.Store(uint64(written))
}
