package once

import (
	"unsafe"

	"github.com/crystalcld/atomic-try-update/bits"
	"github.com/crystalcld/atomic-try-update/compound"
	"github.com/crystalcld/atomic-try-update/internal/obslog"
	"github.com/crystalcld/atomic-try-update/internal/pin"
)

// Lifecycle is the 4-state tag packed into a Cell's FlagPtr.
type Lifecycle uint8

const (
	// NotSet is the zero value: nothing has been written yet.
	NotSet Lifecycle = iota
	// Setting marks a reservation made by GetOrPrepareToSet, pending a
	// matching SetPrepared call.
	Setting
	// Set marks a cell holding a final value (possibly a sealed-empty
	// cell installed by GetOrSeal, whose pointer is nil).
	Set
	// Dead marks a cell that has been closed. Any further operation that
	// observes Dead is a use-after-free bug, not a recoverable error.
	Dead
)

type cellState[T any] struct {
	tag bits.FlagPtr[bits.Align8[T]]
}

type cellCodec[T any] struct{}

func (cellCodec[T]) Pack(s *cellState[T]) uint64      { return s.tag.Raw() }
func (cellCodec[T]) Unpack(w uint64, s *cellState[T]) { s.tag.SetRaw(w) }

// Cell is a wait-free once-cell: a value that may be written at most once,
// with read, poll, and prepare-then-set variants.
// The zero value is not usable; construct with NewCell.
type Cell[T any] struct {
	atom   *compound.Atom[cellState[T], uint64]
	logger *obslog.Logger
}

// NewCell constructs an empty, NotSet Cell.
func NewCell[T any](opts ...Option) *Cell[T] {
	c := newConfig(opts)
	return &Cell[T]{
		atom:   compound.NewAtom[cellState[T], uint64](cellCodec[T]{}),
		logger: c.logger,
	}
}

type cellResult[T any] struct {
	ptr *bits.Align8[T] // nil means "no value" (NotSet, Setting, or sealed-empty)
	err error
	bug bool
}

func (c *Cell[T]) resolve(res cellResult[T]) (*T, error) {
	if res.bug {
		c.logger.Err().Err(errUseAfterFree).Log("once: use-after-free detected")
		panic("once: use-after-free: Dead cell observed by a live operation")
	}
	if res.ptr == nil {
		return nil, res.err
	}
	return &res.ptr.Inner, res.err
}

// Set installs v if the cell is NotSet. It returns the winning value (v on
// success, the existing value if another goroutine already set it first)
// and ErrAlreadySet or ErrAttemptToSetConcurrently on failure to install.
func (c *Cell[T]) Set(v T) (*T, error) {
	boxed := &bits.Align8[T]{Inner: v}
	pin.Pin(unsafe.Pointer(boxed))

	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet:
			s.tag.SetFlag(uint8(Set))
			s.tag.SetPtr(boxed)
			return true, cellResult[T]{ptr: boxed}
		case Setting:
			return false, cellResult[T]{err: ErrAttemptToSetConcurrently}
		case Set:
			return false, cellResult[T]{ptr: s.tag.GetPtr(), err: ErrAlreadySet}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})

	if res.err != nil || res.bug {
		pin.Unpin(unsafe.Pointer(boxed))
	}
	return c.resolve(res)
}

// GetOrPrepareToSet reads the current value if one is already set, or else
// reserves the Setting state for the caller and returns (nil, nil),
// obliging the caller to follow up with SetPrepared (or the reservation
// blocks all other setters indefinitely). Returns
// ErrAttemptToSetConcurrently if another goroutine holds the reservation.
func (c *Cell[T]) GetOrPrepareToSet() (*T, error) {
	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet:
			s.tag.SetFlag(uint8(Setting))
			return true, cellResult[T]{}
		case Setting:
			return false, cellResult[T]{err: ErrAttemptToSetConcurrently}
		case Set:
			return false, cellResult[T]{ptr: s.tag.GetPtr()}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})
	return c.resolve(res)
}

// SetPrepared installs v, completing a reservation made by a prior
// GetOrPrepareToSet call on this goroutine. Returns ErrUnpreparedForSet if
// the cell was not in the Setting state.
func (c *Cell[T]) SetPrepared(v T) (*T, error) {
	boxed := &bits.Align8[T]{Inner: v}
	pin.Pin(unsafe.Pointer(boxed))

	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case Setting:
			s.tag.SetFlag(uint8(Set))
			s.tag.SetPtr(boxed)
			return true, cellResult[T]{ptr: boxed}
		case NotSet, Set:
			return false, cellResult[T]{err: ErrUnpreparedForSet}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})

	if res.err != nil || res.bug {
		pin.Unpin(unsafe.Pointer(boxed))
	}
	return c.resolve(res)
}

// Get reads the current value. Returns ErrAttemptToReadWhenUnset if the
// cell has not been finalized (NotSet or Setting).
func (c *Cell[T]) Get() (*T, error) {
	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet, Setting:
			return false, cellResult[T]{err: ErrAttemptToReadWhenUnset}
		case Set:
			return false, cellResult[T]{ptr: s.tag.GetPtr()}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})
	return c.resolve(res)
}

// GetPoll is a non-erroring variant of Get: ok is false whenever the cell
// is not yet readable, with no distinction between NotSet and Setting.
func (c *Cell[T]) GetPoll() (v *T, ok bool) {
	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet, Setting:
			return false, cellResult[T]{}
		case Set:
			return false, cellResult[T]{ptr: s.tag.GetPtr()}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})
	if res.bug {
		c.logger.Err().Err(errUseAfterFree).Log("once: use-after-free detected")
		panic("once: use-after-free: Dead cell observed by a live operation")
	}
	if res.ptr == nil {
		return nil, false
	}
	return &res.ptr.Inner, true
}

// GetOrSeal reads the current value, or — if the cell is still NotSet —
// permanently seals it empty (transitioning straight to Set with no
// stored value) and returns (nil, nil). Once sealed empty, every future
// Get/GetPoll/GetOrSeal call observes Set with no value, exactly as if
// Set had raced and lost. Returns ErrAttemptToSetConcurrently if a
// GetOrPrepareToSet reservation is in progress.
func (c *Cell[T]) GetOrSeal() (*T, error) {
	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet:
			s.tag.SetFlag(uint8(Set))
			return true, cellResult[T]{}
		case Setting:
			return false, cellResult[T]{err: ErrAttemptToSetConcurrently}
		case Set:
			return false, cellResult[T]{ptr: s.tag.GetPtr()}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})
	return c.resolve(res)
}

// Close transitions the cell to Dead, unpinning and releasing any stored
// value. It panics if the cell was already Dead — a double Close is a
// programmer bug, not a recoverable condition.
func (c *Cell[T]) Close() {
	res := compound.Update(c.atom, func(s *cellState[T]) (bool, cellResult[T]) {
		switch Lifecycle(s.tag.GetFlag()) {
		case NotSet, Setting:
			s.tag.SetFlag(uint8(Dead))
			return true, cellResult[T]{}
		case Set:
			ptr := s.tag.GetPtr()
			s.tag.SetFlag(uint8(Dead))
			s.tag.SetPtr(nil)
			return true, cellResult[T]{ptr: ptr}
		case Dead:
			return false, cellResult[T]{bug: true}
		default:
			panic("once: torn read of lifecycle tag")
		}
	})
	if res.bug {
		c.logger.Err().Err(errUseAfterFree).Log("once: use-after-free detected on Close")
		panic("once: use-after-free: Close called on an already-dead cell")
	}
	if res.ptr != nil {
		pin.Unpin(unsafe.Pointer(res.ptr))
	}
}
