// SPDX-License-Identifier: MIT

package sketch

// FloydSample exposes floydSample to the external tests.
var FloydSample = floydSample
