package bits

import (
	"fmt"
	"unsafe"
)

// flagPtrMask covers the 3 bits FlagPtr steals from an 8-byte-aligned
// pointer (assuming 8-byte alignment).
const flagPtrMask = uintptr(0b111)

// FlagPtr packs a pointer to T (assumed 8-byte aligned) together with a
// 3-bit tag in the pointer's low bits. The zero value is a null pointer
// with a zero tag.
//
// T must be 8-byte aligned; if you don't control T's alignment, wrap it in
// Align8[T] first: FlagPtr[Align8[T]].
//
// FlagPtr is a plain value type, read/written only from inside a
// compound.Update transformation (or its Codec); it performs no atomic
// operations of its own.
type FlagPtr[T any] struct {
	val uintptr
}

// GetPtr returns the stored pointer with the tag bits masked off.
func (f FlagPtr[T]) GetPtr() *T {
	return (*T)(unsafe.Pointer(f.val &^ flagPtrMask)) //nolint:govet
}

// SetPtr installs ptr, preserving the current tag. Panics if ptr is not
// 8-byte aligned.
func (f *FlagPtr[T]) SetPtr(ptr *T) {
	addr := uintptr(unsafe.Pointer(ptr))
	if addr&flagPtrMask != 0 {
		panic(fmt.Sprintf("bits: FlagPtr.SetPtr: pointer %#x is not 8-byte aligned", addr))
	}
	f.val = addr | (f.val & flagPtrMask)
}

// GetFlag returns the 3-bit tag, in [0,7].
func (f FlagPtr[T]) GetFlag() uint8 {
	return uint8(f.val & flagPtrMask)
}

// SetFlag installs the tag, preserving the current pointer. Panics if flag
// is greater than 7.
func (f *FlagPtr[T]) SetFlag(flag uint8) {
	if uintptr(flag)&^flagPtrMask != 0 {
		panic(fmt.Sprintf("bits: FlagPtr.SetFlag: tag %d out of range [0,7]", flag))
	}
	f.val = (f.val &^ flagPtrMask) | uintptr(flag)
}

// raw returns the packed word, for use by a Codec building a wider record.
func (f FlagPtr[T]) raw() uintptr { return f.val }

// setRaw installs a previously-packed word, for use by a Codec unpacking a
// wider record.
func (f *FlagPtr[T]) setRaw(v uintptr) { f.val = v }

// Raw exposes the packed representation as a uint64, so a Codec can embed
// a FlagPtr field directly inside its packed word without reaching into
// unexported state.
func (f FlagPtr[T]) Raw() uint64 { return uint64(f.raw()) }

// SetRaw is the inverse of Raw.
func (f *FlagPtr[T]) SetRaw(v uint64) { f.setRaw(uintptr(v)) }

// Align8 forces 8-byte alignment on a payload of otherwise unknown
// alignment, so FlagPtr[Align8[T]] is always sound regardless of T's own
// alignment requirements. The zero-length uint64 array field has no size
// cost, but raises the struct's alignment requirement to 8 bytes (the
// alignment of its widest field), the same trick used to force cache-line
// alignment elsewhere in this codebase family.
type Align8[T any] struct {
	_     [0]uint64
	Inner T
}
