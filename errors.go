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

// errReleaseFewerTooLarge reports an attempt to release more elements
// than a consumer guard actually holds. This is a programmer error with
// no recoverable path, so it is surfaced as a panic rather than an
// error return.
func errReleaseFewerTooLarge(n uint64, have int) error {
	return fmt.Errorf("mpscring: ReleaseFewer(%d) exceeds guard length %d", n, have)
}
