// Package assert provides a single panic-on-invariant helper shared by the
// core packages, for conditions that indicate a programming error rather
// than a runtime condition a caller could recover from.
package assert

import "fmt"

// Assertf panics with a formatted message if cond is false. It is grounded
// on the teacher's own length-guard panics (e.g. sfnnue/simd.go's
// "slice length mismatch" checks ahead of unsafe SIMD loads): a bare panic
// on a condition the caller was responsible for never holding, not a
// recoverable error return.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
