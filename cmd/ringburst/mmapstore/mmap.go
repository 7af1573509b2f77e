// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

// Package mmapstore backs a byte region with a memory-mapped region
// instead of a Go slice, so the --mmap flag on `ringburst probe` can
// show a data-area-sized region living outside the GC heap.
package mmapstore

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Region is an mmap'd byte region. Unlike a make([]byte, n)
// allocation, it is never scanned or moved by the garbage collector.
type Region struct {
	mapping mmap.MMap
	file    *os.File
}

// New creates a Region of size bytes backed by a shared, read-write
// mapping of a truncated temp file. The temp file is unlinked before New
// returns; the mapping itself keeps the underlying pages alive until
// Close.
func New(size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmapstore: size must be positive, got %d", size)
	}

	f, err := os.CreateTemp("", "ringburst-*.mmap")
	if err != nil {
		return nil, fmt.Errorf("mmapstore: create backing file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapstore: truncate backing file: %w", err)
	}

	m, err := mmap.MapRegion(f, size, mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapstore: map region: %w", err)
	}

	return &Region{mapping: m, file: f}, nil
}

// Bytes returns the mapped region as a byte slice. It remains valid
// until Close.
func (r *Region) Bytes() []byte { return r.mapping }

// Close unmaps the region and releases the backing file descriptor.
func (r *Region) Close() error {
	if err := r.mapping.Unmap(); err != nil {
		r.file.Close()
		return fmt.Errorf("mmapstore: unmap: %w", err)
	}
	return r.file.Close()
}
