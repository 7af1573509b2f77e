// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package mpscring

import "sync/atomic"

const cacheLinePad = 64

// producerRecord holds one producer's `seen` offset. It is written only
// by its owning producer and read by every other goroutine (the
// consumer, during its scan), so the field is an atomic word rather
// than a plain one. Padding keeps adjacent producers' records on
// separate cache lines so one producer's writes do not invalidate a
// neighbor's cache line.
type producerRecord struct {
	seen atomic.Uint64
	_    [cacheLinePad - 8]byte
}

// idle reports whether this producer currently holds no reservation.
func (r *producerRecord) idle() bool {
	return offsetWord(r.seen.Load()) == maxOffset
}

// load returns the current seen value.
func (r *producerRecord) load() offsetWord {
	return offsetWord(r.seen.Load())
}

// store sets the seen value.
func (r *producerRecord) store(w offsetWord) {
	r.seen.Store(uint64(w))
}
