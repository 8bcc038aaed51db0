package bitvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVec_RedisBitOrder(t *testing.T) {
	// SETBIT key 0 1 and SETBIT key 9 1 leave "\x80\x40" in redis.
	v := FromBytes([]byte{0x80, 0x40})
	require.Equal(t, 16, v.Len())
	assert.True(t, v.Get(0))
	assert.True(t, v.Get(9))
	assert.False(t, v.Get(1))
	assert.False(t, v.Get(8))

	w := New(10)
	w.Set(0, true)
	w.Set(9, true)
	assert.Equal(t, []byte{0x80, 0x40}, w.Bytes())
}

func TestBitVec_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 33} {
		v := New(n)
		for i := 0; i < n; i++ {
			if i%3 == 0 || i == n-1 {
				v.Set(i, true)
			}
		}

		b := v.Bytes()
		assert.Len(t, b, (n+7)/8, "n=%d", n)

		got := Decode(b, n)
		require.Equal(t, n, got.Len())
		assert.Equal(t, v.String(), got.String(), "n=%d", n)
	}
}

func TestBitVec_DecodeIgnoresTrailingBits(t *testing.T) {
	v := Decode([]byte{0xff}, 3)
	assert.Equal(t, "111", v.String())
	assert.Equal(t, []byte{0xe0}, v.Bytes())

	v.Negate()
	assert.True(t, v.None(), "bits past the length must not survive a negate")
}

func TestPadToMatch(t *testing.T) {
	a := FromBytes([]byte{0xff})
	b := New(16)

	PadToMatch(a, b)
	require.Equal(t, 16, a.Len())
	require.Equal(t, 16, b.Len())
	for i := 8; i < 16; i++ {
		assert.False(t, a.Get(i), "bit %d", i)
	}
	assert.Equal(t, []byte{0xff, 0x00}, a.Bytes())

	// Either argument may be the shorter one.
	c := New(3)
	d := New(1)
	PadToMatch(d, c)
	assert.Equal(t, 3, d.Len())
}

func TestBitVec_IntersectNegate(t *testing.T) {
	candidates := Decode([]byte{0xf0}, 4)
	blacklist := Decode([]byte{0x40}, 2)
	soldOut := Decode([]byte{0x10, 0x00}, 9)
	require.Equal(t, "000100000", soldOut.String())

	PadToMatch(candidates, blacklist)
	PadToMatch(candidates, soldOut)
	PadToMatch(blacklist, soldOut)

	blacklist.Negate()
	soldOut.Negate()
	candidates.Intersect(blacklist)
	candidates.Intersect(soldOut)

	assert.Equal(t, "101000000", candidates.String())
}

func TestBitVec_IntersectLengthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		New(3).Intersect(New(4))
	})
}

func TestBitVec_FirstLast(t *testing.T) {
	v := New(40)
	_, ok := v.First()
	assert.False(t, ok)
	_, ok = v.Last()
	assert.False(t, ok)

	v.Set(17, true)
	v.Set(35, true)

	first, ok := v.First()
	require.True(t, ok)
	assert.Equal(t, 17, first)

	last, ok := v.Last()
	require.True(t, ok)
	assert.Equal(t, 35, last)
	assert.True(t, v.Any())
}

func TestBitVec_Grow(t *testing.T) {
	v := New(5)
	v.Grow(6, true)
	assert.Equal(t, "00000111111", v.String())
	v.Grow(0, true)
	assert.Equal(t, 11, v.Len())
}

func TestBitVec_SetOutOfRange(t *testing.T) {
	v := New(2)
	assert.Panics(t, func() { v.Set(2, true) })
	assert.False(t, v.Get(100))
}
