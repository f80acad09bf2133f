// SPDX-License-Identifier: MIT
// Package saddle: error wrapping.
// Validation failures reuse the lstsq sentinels so callers match one set
// with errors.Is across all drivers.

package saddle

import "fmt"

const opSPS2 = "SPS2"

// saddleErrorf wraps err with an operation tag. Call only with a non-nil err.
func saddleErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
