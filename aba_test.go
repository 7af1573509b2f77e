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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario_ABADefense checks the ABA-defense invariant: a full wrap
// cycle can bring `next`'s offset bits back to a value a stalled
// producer already captured, while the wrap counter packed into the
// same word has moved on. A CAS keyed on the offset alone would be
// fooled into succeeding against the wrong lap; the packed wrap
// counter must make it fail.
func TestScenario_ABADefense(t *testing.T) {
	consumer, producers := New[int](4, 1)
	p0 := producers[0]

	staleSeen := offsetWord(p0.core.next.Load())
	require.Equal(t, offsetWord(0), staleSeen.offset())
	require.Equal(t, offsetWord(0), staleSeen.wrapCounter())

	// Drive a full wrap cycle: reserve and release 3 of the 4 slots,
	// then an exact-fit Acquire(1) of the last slot returns `next` to
	// offset 0.
	g, ok := p0.Acquire(3)
	require.True(t, ok)
	g.Close()

	cg := consumer.Consume()
	require.Equal(t, 3, len(cg.Slice))
	cg.Close() // written=3

	g, ok = p0.Acquire(1)
	require.True(t, ok)
	g.Close()

	current := offsetWord(p0.core.next.Load())
	assert.Equal(t, offsetWord(0), current.offset(),
		"offset returns to 0 after the exact-fit wrap")
	assert.Equal(t, offsetWord(1<<32), current.wrapCounter(),
		"wrap counter must have advanced even though the offset did not change")
	assert.NotEqual(t, staleSeen, current, "same offset, different lap")

	// A CAS built from the stale pre-wrap word must fail now: the
	// offset bits alone would match, but the full word does not.
	swapped := p0.core.next.CompareAndSwap(uint64(staleSeen), uint64(staleSeen)+1)
	assert.False(t, swapped, "a CAS keyed on the stale word must be rejected after the wrap")

	// The real Acquire path only ever builds its CAS operand from a
	// next value it just re-read via stableNext, so it would observe
	// `current`, not `staleSeen`, and retry correctly; a later Acquire
	// on the same producer still succeeds against real state.
	g, ok = p0.Acquire(1)
	require.True(t, ok)
	assert.Equal(t, 1, len(g.Slice))
	g.Close()
}
