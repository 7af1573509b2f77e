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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario_SingleProducerRoundTrip checks the basic round trip: a
// single producer fills part of the buffer, the consumer drains exactly
// that range, and a second Consume sees nothing new.
func TestScenario_SingleProducerRoundTrip(t *testing.T) {
	consumer, producers := New[int](8, 1)
	p := producers[0]

	guard, ok := p.Acquire(3)
	require.True(t, ok)
	copy(guard.Slice, []int{10, 20, 30})
	guard.Close()

	cg := consumer.Consume()
	assert.Equal(t, []int{10, 20, 30}, cg.Slice)
	cg.Close()

	empty := consumer.Consume()
	assert.Empty(t, empty.Slice)
}

// TestScenario_ExactFillThenWrap checks that once the consumer has
// released enough for `next` to safely return to 0, a later Acquire
// lands back at offset 0.
//
// Note that Acquire(capacity) on a freshly constructed buffer (nothing
// released yet) is always rejected: an exact-fit wrap target is refused
// whenever it would make `next` equal `written` (0 == 0 here), because
// producers may never advance `next` to equal `written` — only the
// consumer may close that gap. See DESIGN.md for the full trace.
func TestScenario_ExactFillThenWrap(t *testing.T) {
	consumer, producers := New[int](4, 1)
	p := producers[0]

	guard, ok := p.Acquire(3)
	require.True(t, ok)
	copy(guard.Slice, []int{1, 2, 3})
	guard.Close()

	cg := consumer.Consume()
	assert.Equal(t, []int{1, 2, 3}, cg.Slice)
	cg.Close() // releases all 3; written advances to 3

	guard, ok = p.Acquire(1)
	require.True(t, ok)
	assert.Equal(t, []int{4}, func() []int { guard.Slice[0] = 4; return guard.Slice }())
	guard.Close()

	cg = consumer.Consume()
	assert.Equal(t, []int{4}, cg.Slice)
	cg.Close() // written reaches capacity, wraps to 0

	guard, ok = p.Acquire(2)
	require.True(t, ok, "producer should land back at offset 0 after the wrap")
}

// TestScenario_WrapWithPendingTail checks that a wrap leaves a tail of
// still-unreleased elements behind, and the consumer's next Consume
// call returns exactly that tail — never spanning the wrap — before a
// following call returns the fresh post-wrap region.
func TestScenario_WrapWithPendingTail(t *testing.T) {
	consumer, producers := New[int](8, 1)
	p := producers[0]

	guard, ok := p.Acquire(6)
	require.True(t, ok)
	for i := range guard.Slice {
		guard.Slice[i] = i + 1
	}
	guard.Close()

	cg := consumer.Consume()
	require.Equal(t, 6, len(cg.Slice))
	cg.ReleaseFewer(5) // written=5, one element [5,6) still pending

	guard, ok = p.Acquire(3)
	require.True(t, ok, "wrap must succeed: new region [0,3) stays clear of the unreleased tail")
	for i := range guard.Slice {
		guard.Slice[i] = 100 + i
	}
	guard.Close()

	cg = consumer.Consume()
	assert.Equal(t, []int{6}, cg.Slice, "tail must be returned alone, not spanning the wrap")
	cg.Close()

	cg = consumer.Consume()
	assert.Equal(t, []int{100, 101, 102}, cg.Slice)
	cg.Close()
}

// TestScenario_OvertakeDenied checks that a producer may not reserve a
// burst that would require catching up with the consumer's written
// cursor, and that acquiring a smaller amount that fits still succeeds.
func TestScenario_OvertakeDenied(t *testing.T) {
	consumer, producers := New[int](4, 1)
	p := producers[0]

	guard, ok := p.Acquire(3)
	require.True(t, ok)
	guard.Close()

	cg := consumer.Consume()
	cg.ReleaseFewer(1) // written=1, partial release so a later small Acquire has room

	_, ok = p.Acquire(3)
	assert.False(t, ok, "would require wrapping into still-unreleased data")

	guard, ok = p.Acquire(1)
	assert.True(t, ok, "a small enough request still succeeds")
	guard.Close()
}

// TestScenario_ConcurrentProducers checks that two producers racing
// Acquire(3) on a buffer with ample room both succeed, claiming
// disjoint regions that together cover exactly the 6 reserved slots.
func TestScenario_ConcurrentProducers(t *testing.T) {
	consumer, producers := New[int](16, 2)

	var wg sync.WaitGroup
	offsets := make([]int, 2)
	wg.Add(2)
	for i, p := range producers {
		i, p := i, p
		go func() {
			defer wg.Done()
			guard, ok := p.Acquire(3)
			require.True(t, ok)
			for j := range guard.Slice {
				guard.Slice[j] = i*100 + j
			}
			offsets[i] = dataOffset(p, guard.Slice)
			guard.Close()
		}()
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{0, 3}, offsets)

	cg := consumer.Consume()
	assert.Equal(t, 6, len(cg.Slice))
	cg.Close()
}

// dataOffset recovers the index a reservation's slice starts at within
// the buffer's backing array: every slice is cut from the same
// capacity-length array, so the leftover capacity after the slice
// pins down how far into it the slice begins.
func dataOffset[T any](p *Producer[T], slice []T) int {
	return int(p.core.capacity) - cap(slice)
}
