package asynccoro

import (
	"errors"
	"fmt"
)

// AwaiterError exposes which awaiter, by index, contributed an error to a
// WhenAll result (and, by input index, to RunAll, MapStream and RunStream
// errors). WhenAny reports its winner's error untagged.
//
// Grounded on the teacher's error_tagging.go TaskMetaError/taskTaggedError
// pair, which tags worker-pool task failures with a task ID and index;
// adapted here to tag combinator child failures with just the index,
// since WhenAll/WhenAny awaiters carry no separate identity of their own.
type AwaiterError interface {
	error
	Unwrap() error
	Index() int
}

// taggedError is AwaiterError's concrete implementation, produced by
// WhenAll (combinators.go) for each failed child awaiter, and by RunAll,
// MapStream and RunStream for each failed task.
type taggedError struct {
	err   error
	index int
}

func (e *taggedError) Error() string { return fmt.Sprintf("awaiter %d: %s", e.index, e.err.Error()) }
func (e *taggedError) Unwrap() error { return e.err }
func (e *taggedError) Index() int    { return e.index }

func (e *taggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "awaiter(index=%d): %+v", e.index, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractAwaiterIndex returns the awaiter index tagged onto err, if any,
// unwrapping through errors.Join trees produced by WhenAll.
func ExtractAwaiterIndex(err error) (int, bool) {
	var ae AwaiterError
	if errors.As(err, &ae) {
		return ae.Index(), true
	}
	return 0, false
}
