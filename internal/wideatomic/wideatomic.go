// Package wideatomic provides the wide-atomic-slot contract compound.Atom
// needs: sequentially-consistent load / compare-and-swap over a 64-bit or
// 128-bit word.
//
// 64-bit words use sync/atomic.Uint64 directly. 128-bit words ([2]uint64)
// have no portable lock-free CAS in pure Go, so they fall back to a
// fixed-size table of address-sharded sync.Mutex (hash the slot's address,
// take one of a fixed number of stripes) — the same sharding idiom used
// for per-category locking in catrate.Limiter.
package wideatomic

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/crystalcld/atomic-try-update/internal/obslog"
	"golang.org/x/sys/cpu"
)

// Word is the set of backing integer types a compound.Atom may use.
type Word interface {
	~uint64 | ~[2]uint64
}

// Slot is a sequentially-consistent wide-atomic memory cell.
type Slot[U Word] interface {
	Load() U
	// CompareAndSwap attempts old -> new. On failure it returns the actual
	// current value and false, so the caller can retry without a second
	// load.
	CompareAndSwap(old, new U) (actual U, swapped bool)
}

// NewSlot constructs a zero-valued Slot for the given word type.
func NewSlot[U Word]() Slot[U] {
	var zero U
	switch any(zero).(type) {
	case uint64:
		s := new(uint64Slot)
		return any(s).(Slot[U])
	case [2]uint64:
		s := newDwordSlot()
		return any(s).(Slot[U])
	default:
		panic("wideatomic: unsupported word type")
	}
}

type uint64Slot struct {
	v atomic.Uint64
}

func (s *uint64Slot) Load() uint64 { return s.v.Load() }

func (s *uint64Slot) CompareAndSwap(old, new uint64) (uint64, bool) {
	if s.v.CompareAndSwap(old, new) {
		return new, true
	}
	return s.v.Load(), false
}

// dwordStripes is the number of mutex stripes backing 128-bit slots. Chosen
// as a small power of 2 comfortably above typical core counts, to keep
// cross-slot contention low without a lock per instance (most callers of
// this module construct a handful of Atom instances, not millions).
const dwordStripes = 64

var dwordLocks [dwordStripes]sync.Mutex

var logDwordFallbackOnce sync.Once

type dwordSlot struct {
	v [2]uint64
}

func newDwordSlot() *dwordSlot {
	logDwordFallbackOnce.Do(func() {
		if hasNativeDWordCAS() {
			obslog.Default().Debug().Log("wideatomic: 128-bit slot falling back to mutex stripes despite native dword CAS support")
		}
	})
	return &dwordSlot{}
}

func (s *dwordSlot) stripe() *sync.Mutex {
	addr := uintptr(unsafe.Pointer(s))
	return &dwordLocks[fnv1a(addr)%dwordStripes]
}

func (s *dwordSlot) Load() [2]uint64 {
	mu := s.stripe()
	mu.Lock()
	defer mu.Unlock()
	return s.v
}

func (s *dwordSlot) CompareAndSwap(old, new [2]uint64) ([2]uint64, bool) {
	mu := s.stripe()
	mu.Lock()
	defer mu.Unlock()
	if s.v == old {
		s.v = new
		return new, true
	}
	return s.v, false
}

func fnv1a(addr uintptr) uintptr {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < int(unsafe.Sizeof(addr)); i++ {
		h ^= uint64(byte(addr >> (8 * i)))
		h *= prime
	}
	return uintptr(h)
}

// hasNativeDWordCAS reports whether the current architecture exposes a
// native double-word compare-and-swap primitive. Go's sync/atomic does not
// expose one, so dwordSlot always falls back to mutex stripes; this is
// used only to log when that fallback is leaving hardware support unused.
func hasNativeDWordCAS() bool {
	return cpu.X86.HasCX16 || cpu.ARM64.HasATOMICS
}
