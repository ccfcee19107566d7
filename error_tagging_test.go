package asynccoro

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaggedError_UnwrapAndIndex(t *testing.T) {
	base := errors.New("boom")
	te := &taggedError{err: base, index: 2}

	require.Equal(t, "awaiter 2: boom", te.Error())
	require.Equal(t, base, te.Unwrap())
	require.Equal(t, 2, te.Index())
}

func TestExtractAwaiterIndex_FindsTaggedErrorThroughJoin(t *testing.T) {
	base := errors.New("boom")
	joined := errors.Join(errors.New("unrelated"), &taggedError{err: base, index: 3})

	idx, ok := ExtractAwaiterIndex(joined)
	require.True(t, ok)
	require.Equal(t, 3, idx)
}

func TestExtractAwaiterIndex_NoTaggedError(t *testing.T) {
	_, ok := ExtractAwaiterIndex(errors.New("plain"))
	require.False(t, ok)
}

func TestTaggedError_FormatVerbs(t *testing.T) {
	te := &taggedError{err: errors.New("boom"), index: 1}
	require.Equal(t, "awaiter 1: boom", fmt.Sprintf("%s", te))
	require.Equal(t, `"awaiter 1: boom"`, fmt.Sprintf("%q", te))
}
