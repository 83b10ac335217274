package keypad_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/keypad"
)

func TestShuffle_PinnedDigitStaysPut(t *testing.T) {
	for i := 0; i < 100; i++ {
		layout, err := keypad.Shuffle()
		require.NoError(t, err)

		assert.Equal(t, keypad.PinnedDigit, layout[9])
	}
}

func TestShuffle_IsPermutationOfAllDigits(t *testing.T) {
	layout, err := keypad.Shuffle()
	require.NoError(t, err)

	digits := append([]int(nil), layout[:]...)
	sort.Ints(digits)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, digits)
}

func TestShuffle_LayoutVaries(t *testing.T) {
	// 50 draws of 9! orderings colliding every time is not a thing.
	seen := map[keypad.Layout]struct{}{}
	for i := 0; i < 50; i++ {
		layout, err := keypad.Shuffle()
		require.NoError(t, err)
		seen[layout] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestBuffer_FillAndValue(t *testing.T) {
	var buf keypad.Buffer

	for _, d := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, buf.Push(d))
		assert.False(t, buf.Full())
		assert.Empty(t, buf.Value(), "partial entry must not expose a value")
	}

	require.NoError(t, buf.Push(6))
	assert.True(t, buf.Full())
	assert.Equal(t, "123456", buf.Value())

	assert.ErrorIs(t, buf.Push(7), keypad.ErrBufferFull)
}

func TestBuffer_RejectsNonDigits(t *testing.T) {
	var buf keypad.Buffer

	assert.ErrorIs(t, buf.Push(-1), keypad.ErrInvalidDigit)
	assert.ErrorIs(t, buf.Push(10), keypad.ErrInvalidDigit)
	assert.Zero(t, buf.Len())
}

func TestBuffer_Clear(t *testing.T) {
	var buf keypad.Buffer

	for d := 0; d < keypad.PinLength; d++ {
		require.NoError(t, buf.Push(d))
	}
	buf.Clear()

	assert.Zero(t, buf.Len())
	assert.False(t, buf.Full())
	require.NoError(t, buf.Push(9))
}
