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
)

func TestOffsetWord_ExtractOffset(t *testing.T) {
	w := offsetWord(42) | wrapLockBit | (3 << 32)
	assert.Equal(t, offsetWord(42), w.offset())
}

func TestOffsetWord_Locked(t *testing.T) {
	assert.True(t, (offsetWord(7) | wrapLockBit).locked())
	assert.False(t, offsetWord(7).locked())
}

func TestOffsetWord_WithWrapTick(t *testing.T) {
	seen := offsetWord(5) | (2 << 32)
	next := withWrapTick(seen, offsetWord(0))
	assert.Equal(t, offsetWord(3<<32), next.wrapCounter())
}

func TestOffsetWord_WithSameWrap(t *testing.T) {
	seen := offsetWord(5) | (2 << 32)
	next := withSameWrap(seen, offsetWord(9))
	assert.Equal(t, offsetWord(2<<32), next.wrapCounter())
	assert.Equal(t, offsetWord(9), next.offset())
}

func TestOffsetWord_MaxOffsetSentinel(t *testing.T) {
	// maxOffset is every bit except the wrap lock bit, so it reads as
	// "unlocked" even though it is never a legitimate in-range offset
	// for any real capacity.
	assert.False(t, maxOffset.locked())
	assert.Equal(t, wrapCounterMask|offsetMask, maxOffset)
}
