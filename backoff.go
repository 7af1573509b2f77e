// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

package mpscring

import "runtime"

const backoffCeiling = 128

// backoff is a bounded exponential spin-pause used while waiting for an
// unstable offset (the wrap lock bit set on `next`, or on a producer's
// `seen`) to clear. It never sleeps and never blocks on an OS
// primitive; each pause is a runtime.Gosched call, which only yields the
// processor to other goroutines — the holder of the bit does only a
// small constant amount of work before clearing it, so there is nothing
// useful to block on.
type backoff struct {
	count uint8
}

// newBackoff returns a backoff ready for its first spin.
func newBackoff() backoff {
	return backoff{count: 4}
}

// spin calls runtime.Gosched count times, then doubles count up to a
// ceiling.
func (b *backoff) spin() {
	for i := uint8(0); i < b.count; i++ {
		runtime.Gosched()
	}
	if b.count < backoffCeiling {
		next := uint16(b.count) * 2
		if next > backoffCeiling {
			next = backoffCeiling
		}
		b.count = uint8(next)
	}
}
