// Package pointer implements the colored-pointer ABI: the encoding of
// barrier state into the high bits of an otherwise ordinary address, and
// the process-wide "good color" that the load barrier checks against.
//
// A Ptr is never a real Go pointer. It is a plain 64-bit integer carrying
// a 60-bit address (the low bits) and a 4-bit color (the high bits). The
// collector and allocator are the only code that interprets the address
// bits as a location in the managed heap; everywhere else a Ptr is just a
// value.
package pointer

import "sync/atomic"

// Color identifies which of the four disjoint high bits is set on a Ptr.
type Color uint64

const (
	// AddressBits is the width, in bits, of the address portion of a Ptr.
	AddressBits = 60

	// AddressMask covers the low AddressBits bits.
	AddressMask uint64 = (1 << AddressBits) - 1

	// ColorMask covers the remaining high bits.
	ColorMask uint64 = ^AddressMask

	// Marked0 and Marked1 alternate as the "good" color across cycles.
	Marked0 Color = 1 << 60
	Marked1 Color = 1 << 61

	// Remapped and Finalizable are reserved; Finalizable is unused by
	// this collector.
	Remapped    Color = 1 << 62
	Finalizable Color = 1 << 63
)

// Ptr is a colored pointer: address(p) | color(p).
type Ptr uint64

// Address strips the color bits, returning the raw address.
func (p Ptr) Address() uintptr {
	return uintptr(uint64(p) & AddressMask)
}

// Color returns the color bits of p.
func (p Ptr) Color() Color {
	return Color(uint64(p) & ColorMask)
}

// HasColor reports whether p carries exactly color c.
func (p Ptr) HasColor(c Color) bool {
	return p.Color() == c
}

// WithColor builds a Ptr from a raw address and a color. It panics if addr
// has any bits set outside AddressMask — addresses must already be masked
// to the address space this collector manages.
func WithColor(addr uintptr, c Color) Ptr {
	if uint64(addr)&ColorMask != 0 {
		panic("pointer: address overflows into color bits")
	}
	return Ptr(uint64(addr) | uint64(c))
}

// good holds the process-wide good color. It starts as Marked0 and is
// flipped by the collector at the start of every cycle.
var good atomic.Uint64

func init() {
	good.Store(uint64(Marked0))
}

// Current returns the good color with acquire semantics, as required of
// allocators and barriers.
func Current() Color {
	return Color(good.Load())
}

// Flip toggles the good color between Marked0 and Marked1 and returns the
// new color. Only the collector thread (or an explicit synchronous cycle
// caller) may call Flip, and only at the start of a cycle; it is not safe
// to call concurrently with mark or relocate.
func Flip() Color {
	next := Marked1
	if Current() == Marked1 {
		next = Marked0
	}
	good.Store(uint64(next))
	return next
}
