// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package mpscring provides a lock-free, multi-producer / single-consumer
// ring buffer that delivers contiguous bursts of fixed-size elements.
//
// # Thread-Safety Guarantees
//
// The buffer is lock-free (not wait-free: Acquire retries its CAS and
// spins while a wrap is in progress) for its documented use case:
//   - Any number of goroutines may each hold one Producer and call Acquire
//   - Exactly one goroutine may hold the Consumer and call Consume
//   - All other goroutines must not touch a Producer or the Consumer
//     they do not own
//
// Violating these constraints (sharing a Producer, or running more than
// one consumer) will cause data races and undefined behavior.
//
// # Design
//
// Producers reserve space with a single CAS against a shared `next`
// offset, write directly into the reserved slots, then publish by
// clearing their per-producer "seen" offset. The consumer scans every
// producer's seen offset to compute the largest contiguous range that is
// safe to read — everything between its own `written` cursor and the
// smallest live reservation — then advances `written` once it has
// consumed some or all of that range.
//
// No per-element atomic operation executes on the fast path: a single
// CAS reserves an arbitrarily large burst, and the consumer's scan cost
// is proportional to the producer count, not to the number of elements
// delivered.
//
// # Usage Example
//
//	consumer, producers := mpscring.New[int](1024, 4)
//
//	// Producer goroutine (one per entry in producers)
//	go func(p *mpscring.Producer[int]) {
//	    guard, ok := p.Acquire(8)
//	    if !ok {
//	        return // no space without overtaking the consumer; caller retries
//	    }
//	    for i := range guard.Slice {
//	        guard.Slice[i] = i
//	    }
//	    guard.Close() // publishes the burst
//	}(producers[0])
//
//	// Consumer goroutine
//	guard := consumer.Consume()
//	for _, v := range guard.Slice {
//	    fmt.Println(v)
//	}
//	guard.Close() // releases the whole range back to producers
package mpscring
