package compound

import (
	"fmt"
	"unsafe"

	"github.com/crystalcld/atomic-try-update/internal/wideatomic"
)

// Word is the set of integer widths a compound word can be backed by.
type Word = wideatomic.Word

// Codec converts between a record type T and its packed representation U.
// sizeof(T) must be <= sizeof(U) <= 2*sizeof(T): U must be big enough to
// hold every bit of T losslessly, and not more than double, so that a
// round trip through Pack/Unpack is unambiguous and the packing stays
// tight enough to be worth doing.
//
// Pack and Unpack must be pure and side-effect free: they run inside a
// CAS retry loop and may be invoked more than once per logical Update.
type Codec[T any, U Word] interface {
	Pack(*T) U
	Unpack(U, *T)
}

// Atom is a typed cell whose contents live inside a single wide-atomic
// machine word, mutated only through Update. No direct read or write is
// exported.
type Atom[T any, U Word] struct {
	slot  wideatomic.Slot[U]
	codec Codec[T, U]
}

// NewAtom constructs an empty Atom. It panics if T and U don't satisfy the
// size relationship documented on Codec, checked once here rather than on
// every Update.
func NewAtom[T any, U Word](codec Codec[T, U]) *Atom[T, U] {
	var zero U
	sizeT, sizeU := unsafe.Sizeof(*new(T)), unsafe.Sizeof(zero)
	if sizeT > sizeU {
		panic(fmt.Sprintf("compound: sizeof(T)=%d exceeds sizeof(U)=%d", sizeT, sizeU))
	}
	if sizeU > 2*sizeT {
		panic(fmt.Sprintf("compound: sizeof(U)=%d exceeds 2*sizeof(T)=%d", sizeU, 2*sizeT))
	}
	return &Atom[T, U]{
		slot:  wideatomic.NewSlot[U](),
		codec: codec,
	}
}

// Update loads the cell's current value, unpacks it into a scratch T,
// hands that scratch to f, and if f asks to commit, attempts a
// compare-and-swap of the packed result. On CAS failure it retries with
// the freshly observed value. f is never retried after a successful CAS,
// and a non-committing f never attempts a CAS at all.
//
// f must be:
//   - Pure: no side effects, no I/O, no allocator interaction beyond
//     ordinary value construction.
//   - Read-set equivalent: anything f reads beyond its argument must still
//     hold the same bits at the moment CAS succeeds.
//   - Safe on torn/stale input: f may be called with a view that a
//     concurrent Update already overwrote; it must not panic or corrupt
//     state on any bit pattern the atom can legally hold.
//
// These rules are enforced by convention, not the type system.
func Update[T any, U Word, R any](a *Atom[T, U], f func(*T) (bool, R)) R {
	old := a.slot.Load()
	for {
		var scratch T
		a.codec.Unpack(old, &scratch)
		commit, result := f(&scratch)
		if !commit {
			return result
		}
		newWord := a.codec.Pack(&scratch)
		actual, swapped := a.slot.CompareAndSwap(old, newWord)
		if swapped {
			return result
		}
		old = actual
	}
}
