// Package keypad backs the masked PIN pad: a per-request shuffled digit
// layout and the fixed-size input buffer.
package keypad

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// PinLength is the exact number of digits a wallet PIN must have.
const PinLength = 6

// PinnedDigit always occupies the last slot of the layout. Keeping one
// digit stationary preserves a fixed anchor for users while the rest of the
// pad defeats shoulder-surfing and keystroke-pattern inference.
const PinnedDigit = 9

// Layout is a permutation of the digits 0-9. The slot order is the render
// order of the keypad.
type Layout [10]int

// Shuffle returns a fresh layout: PinnedDigit in the last slot, the other
// nine digits uniformly permuted with crypto/rand.
func Shuffle() (Layout, error) {
	var layout Layout

	digits := make([]int, 0, 9)
	for d := 0; d <= 9; d++ {
		if d != PinnedDigit {
			digits = append(digits, d)
		}
	}

	for i := len(digits) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return Layout{}, err
		}
		j := int(n.Int64())
		digits[i], digits[j] = digits[j], digits[i]
	}

	copy(layout[:9], digits)
	layout[9] = PinnedDigit
	return layout, nil
}

var (
	ErrBufferFull   = errors.New("pin buffer is full")
	ErrInvalidDigit = errors.New("pin digit must be between 0 and 9")
)

// Buffer collects PIN digits one keypress at a time. It holds at most
// PinLength digits; the caller decides what to do once Full reports true.
type Buffer struct {
	digits []int
}

func (b *Buffer) Push(digit int) error {
	if digit < 0 || digit > 9 {
		return ErrInvalidDigit
	}
	if len(b.digits) >= PinLength {
		return ErrBufferFull
	}
	b.digits = append(b.digits, digit)
	return nil
}

func (b *Buffer) Clear() {
	b.digits = b.digits[:0]
}

func (b *Buffer) Len() int {
	return len(b.digits)
}

func (b *Buffer) Full() bool {
	return len(b.digits) == PinLength
}

// Value returns the PIN as a digit string. Empty unless the buffer is full,
// so a partial entry can never leak into a verify call.
func (b *Buffer) Value() string {
	if !b.Full() {
		return ""
	}
	out := make([]byte, 0, PinLength)
	for _, d := range b.digits {
		out = append(out, byte('0'+d))
	}
	return string(out)
}
