// Copyright (c) 2025 Joshua Skootsky
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.
//
// Alternatively, you can license this code under a commercial license.
// Contact: joshua.skootsky@gmail.com

//go:build !mpscring_debug

package mpscring

// debugAssert is a no-op in release builds. See debug_assert_on.go for
// the build-tag-gated debug variant.
func debugAssert(condition bool, format string, args ...any) {}
