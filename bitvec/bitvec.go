/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

// Package bitvec is a fixed-length bit vector laid out the way redis lays out
// a string touched by SETBIT: bit 0 is the most significant bit of byte 0.
package bitvec

import "fmt"

var (
	tA = [8]byte{128, 64, 32, 16, 8, 4, 2, 1}
	tB = [8]byte{127, 191, 223, 239, 247, 251, 253, 254}
)

// BitVec is a vector of n bits backed by ceil(n/8) bytes.
// Bits at index >= n inside the last byte are always kept at zero.
type BitVec struct {
	bits []byte
	n    int
}

// New returns an all-false vector of n bits.
func New(n int) *BitVec {
	if n < 0 {
		n = 0
	}
	return &BitVec{bits: make([]byte, byteLen(n)), n: n}
}

// FromBytes decodes a redis string. Every bit of every byte is meaningful, so
// the resulting length is 8*len(b). A missing key decodes to a zero-length vector.
func FromBytes(b []byte) *BitVec {
	return Decode(b, len(b)*8)
}

// Decode returns a vector of n bits read from b. Missing bytes read as zero and
// bits past n are dropped.
func Decode(b []byte, n int) *BitVec {
	v := New(n)
	copy(v.bits, b)
	v.clearTail()
	return v
}

func byteLen(n int) int {
	return (n + 7) / 8
}

func (v *BitVec) Len() int {
	return v.n
}

// Bytes returns ceil(Len/8) bytes; the unused low bits of the final byte are zero.
func (v *BitVec) Bytes() []byte {
	out := make([]byte, len(v.bits))
	copy(out, v.bits)
	return out
}

func (v *BitVec) Clone() *BitVec {
	return &BitVec{bits: v.Bytes(), n: v.n}
}

func (v *BitVec) Get(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.bits[i/8]&tA[i%8] != 0
}

func (v *BitVec) Set(i int, val bool) {
	if i < 0 || i >= v.n {
		panic(fmt.Sprintf("bitvec: index %d out of range [0,%d)", i, v.n))
	}
	if val {
		v.bits[i/8] |= tA[i%8]
	} else {
		v.bits[i/8] &= tB[i%8]
	}
}

// Grow appends n bits with value val.
func (v *BitVec) Grow(n int, val bool) {
	if n <= 0 {
		return
	}
	old := v.n
	v.n += n
	if need := byteLen(v.n); need > len(v.bits) {
		bits := make([]byte, need)
		copy(bits, v.bits)
		v.bits = bits
	}
	if val {
		for i := old; i < v.n; i++ {
			v.Set(i, true)
		}
	}
}

// Intersect ands o into v. Both vectors must have the same length; use
// PadToMatch first.
func (v *BitVec) Intersect(o *BitVec) {
	if v.n != o.n {
		panic(fmt.Sprintf("bitvec: intersect of lengths %d and %d", v.n, o.n))
	}
	for i := range v.bits {
		v.bits[i] &= o.bits[i]
	}
}

// Negate flips every bit in place.
func (v *BitVec) Negate() {
	for i := range v.bits {
		v.bits[i] = ^v.bits[i]
	}
	v.clearTail()
}

func (v *BitVec) Any() bool {
	for _, b := range v.bits {
		if b != 0 {
			return true
		}
	}
	return false
}

func (v *BitVec) None() bool {
	return !v.Any()
}

// First returns the lowest set index.
func (v *BitVec) First() (int, bool) {
	for i := 0; i < v.n; i++ {
		if v.bits[i/8] == 0 {
			i += 7 - i%8
			continue
		}
		if v.Get(i) {
			return i, true
		}
	}
	return 0, false
}

// Last returns the highest set index.
func (v *BitVec) Last() (int, bool) {
	for i := v.n - 1; i >= 0; i-- {
		if v.bits[i/8] == 0 {
			i -= i % 8
			continue
		}
		if v.Get(i) {
			return i, true
		}
	}
	return 0, false
}

func (v *BitVec) String() string {
	buf := make([]byte, v.n)
	for i := 0; i < v.n; i++ {
		if v.Get(i) {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

func (v *BitVec) clearTail() {
	if r := v.n % 8; r != 0 {
		v.bits[len(v.bits)-1] &= ^(byte(0xff) >> uint(r))
	}
}

// PadToMatch grows the shorter of a and b with false bits until both have the
// same length.
func PadToMatch(a, b *BitVec) {
	longer, shorter := a, b
	if b.n > a.n {
		longer, shorter = b, a
	}
	shorter.Grow(longer.n-shorter.n, false)
}
