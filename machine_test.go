package sexp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushChain leaves the reversed cell chain for elems on top of s, the way
// the parser accumulates a list.
func pushChain(t *testing.T, s *Stack, elems ...int32) {
	t.Helper()
	require.NoError(t, s.PushNil())
	for _, v := range elems {
		require.NoError(t, s.PushInt32(v))
		require.NoError(t, s.MakeCons())
	}
}

func TestStack_unwindList(t *testing.T) {
	live := Live()
	s := NewStack()
	pushChain(t, s, 1, 2, 30)
	require.NoError(t, s.PushNil())
	require.NoError(t, s.UnwindList())
	require.Equal(t, 1, s.Len())

	l, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, "(1 2 30)", l.String())
	l.Release()
	assert.Equal(t, live, Live())
}

func TestStack_unwindListDotted(t *testing.T) {
	s := NewStack()
	pushChain(t, s, 1, 2)
	require.NoError(t, s.PushString("tail"))
	require.NoError(t, s.MakeSymbol())
	require.NoError(t, s.UnwindList())

	l, _ := s.Pop()
	assert.Equal(t, "(1 2 . tail)", l.String())
	l.Release()
}

func TestStack_unwindListShared(t *testing.T) {
	live := Live()
	s := NewStack()
	pushChain(t, s, 7, 8, 9)
	chain, err := s.Peek()
	require.NoError(t, err)
	chain.Retain()

	require.NoError(t, s.PushNil())
	require.NoError(t, s.UnwindList())
	l, _ := s.Pop()
	assert.Equal(t, "(7 8 9)", l.String())

	// the shared chain must be left as it was
	assert.Equal(t, 1, chain.Refs())
	assert.Equal(t, "(((nil . 7) . 8) . 9)", chain.String())

	chain.Release()
	l.Release()
	assert.Equal(t, live, Live())
}

func TestStack_unwindListEmpty(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.PushNil())
	require.NoError(t, s.PushInt32(4))
	require.NoError(t, s.UnwindList())
	v, _ := s.Pop()
	assert.Equal(t, int32(4), v.Int32())
	v.Release()
}

func TestStack_errors(t *testing.T) {
	s := NewStack()
	assert.ErrorIs(t, s.MakeCons(), ErrStackUnderflow)
	assert.ErrorIs(t, s.Swap(), ErrStackUnderflow)
	assert.ErrorIs(t, s.MakeSymbol(), ErrStackUnderflow)
	assert.ErrorIs(t, s.UnwindList(), ErrStackUnderflow)
	_, err := s.Pop()
	assert.ErrorIs(t, err, ErrStackUnderflow)

	require.NoError(t, s.PushInt32(5))
	assert.ErrorIs(t, s.MakeSymbol(), ErrNotString)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.PushNil())
	assert.ErrorIs(t, s.UnwindList(), ErrImproperList)
	assert.Equal(t, 2, s.Len())

	assert.ErrorIs(t, s.Drop(3), ErrStackUnderflow)
	assert.Equal(t, 2, s.Len())
	require.NoError(t, s.Drop(2))
	assert.Equal(t, 0, s.Len())
}

func TestStack_swapAndCons(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.PushString("a"))
	require.NoError(t, s.PushChar('b'))
	require.NoError(t, s.Swap())
	require.NoError(t, s.MakeCons())
	v, _ := s.Pop()
	assert.Equal(t, `(?b . "a")`, v.String())
	v.Release()
}

func TestStack_statistics(t *testing.T) {
	live := Live()
	s := NewStack()
	require.NoError(t, s.PushInt64(1<<40))
	require.NoError(t, s.PushFloat(0.5))
	require.NoError(t, s.MakeCons())

	var sb strings.Builder
	_, err := s.FormatStatistics(&sb)
	require.NoError(t, err)
	assert.Equal(t, "MaxDepth  = 2 -- Depth = 1 -- NumPushes = 3", sb.String())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.NumPush)
	assert.Equal(t, live, Live())
}
