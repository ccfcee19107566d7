// Package assertx provides the library's single assertion point.
//
// asynccoro carries no structured logging (see spec Non-goals); the one
// ambient diagnostic surface it keeps is an invariant check that panics
// with context, the Go analogue of the ASYNC_CORO_ASSERT macro used
// throughout the original implementation.
package assertx

import "fmt"

// Invariant panics with a formatted message if cond is false.
// Use it only for conditions that indicate a library bug (double-start,
// double-continue, use of a destroyed handle), never for recoverable
// runtime conditions.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("asynccoro: invariant violated: "+format, args...))
	}
}
