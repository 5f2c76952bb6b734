package barrier

import (
	"context"

	"github.com/crystalcld/atomic-try-update/bits"
	"github.com/crystalcld/atomic-try-update/compound"
	"github.com/crystalcld/atomic-try-update/internal/broadcast"
	"github.com/crystalcld/atomic-try-update/internal/obslog"
)

type barrierCodec struct{}

func (barrierCodec) Pack(s *bits.FlagU64) uint64      { return s.Raw() }
func (barrierCodec) Unpack(w uint64, s *bits.FlagU64) { s.SetRaw(w) }

// ShutdownBarrier coordinates an unknown-in-advance number of workers: the
// creator is the initial worker (count starts at 1), additional workers
// register with Spawn, each worker eventually calls Done, and any
// goroutine can Wait for the barrier to drain (or be Cancelled). The zero
// value is not usable; construct with New.
type ShutdownBarrier struct {
	atom        *compound.Atom[bits.FlagU64, uint64]
	broadcaster *broadcast.Broadcaster[bool]
	logger      *obslog.Logger
}

// New constructs a ShutdownBarrier with one worker already registered
// (the caller itself).
func New(opts ...Option) *ShutdownBarrier {
	c := newConfig(opts)
	atom := compound.NewAtom[bits.FlagU64, uint64](barrierCodec{})
	compound.Update(atom, func(s *bits.FlagU64) (bool, struct{}) {
		s.SetVal(1)
		s.SetFlag(false)
		return true, struct{}{}
	})
	return &ShutdownBarrier{
		atom:        atom,
		broadcaster: broadcast.NewBroadcaster[bool](),
		logger:      c.logger,
	}
}

// Spawn registers one additional worker. Returns ErrAlreadyShutdown if the
// barrier has already drained to zero workers or been cancelled.
func (b *ShutdownBarrier) Spawn() error {
	return compound.Update(b.atom, func(s *bits.FlagU64) (bool, error) {
		if s.GetFlag() || s.GetVal() == 0 {
			return false, ErrAlreadyShutdown
		}
		s.SetVal(s.GetVal() + 1)
		return true, nil
	})
}

// Cancel marks the barrier cancelled, waking every current and future
// Wait caller with Cancelled=true. Returns ErrAlreadyShutdown if the
// barrier was already cancelled or had already drained to zero workers.
// Cancel does not interrupt in-flight work; it is purely a signal.
func (b *ShutdownBarrier) Cancel() error {
	err := compound.Update(b.atom, func(s *bits.FlagU64) (bool, error) {
		if s.GetFlag() || s.GetVal() == 0 {
			return false, ErrAlreadyShutdown
		}
		s.SetFlag(true)
		return true, nil
	})
	if err == nil {
		b.logger.Info().Log("barrier: cancelled")
		b.broadcaster.Send(true)
	}
	return err
}

// DoneResult reports how a Done call resolved.
type DoneResult struct {
	// Cancelled is true if the barrier was cancelled at or before this
	// call (the worker count was still decremented regardless).
	Cancelled bool
	// Leader is true for exactly one Done call per barrier: the one that
	// brought the worker count from one to zero without cancellation.
	Leader bool
}

// Done reports one worker's completion. Returns ErrAlreadyShutdown if the
// worker count was already zero and the barrier was not cancelled (a
// Done call with no corresponding live worker).
//
// If the barrier is cancelled, Done still decrements the worker count
// (saturating at zero rather than underflowing past it — the resolution
// this module picked for callers that invoke Done more times than they
// Spawned while cancelled) and always reports Cancelled=true, never
// Leader.
func (b *ShutdownBarrier) Done() (DoneResult, error) {
	type outcome struct {
		result DoneResult
		err    error
	}

	out := compound.Update(b.atom, func(s *bits.FlagU64) (bool, outcome) {
		if s.GetFlag() {
			if s.GetVal() > 0 {
				s.SetVal(s.GetVal() - 1)
			}
			return true, outcome{result: DoneResult{Cancelled: true}}
		}
		if s.GetVal() == 0 {
			return false, outcome{err: ErrAlreadyShutdown}
		}
		if s.GetVal() == 1 {
			s.SetVal(0)
			return true, outcome{result: DoneResult{Leader: true}}
		}
		s.SetVal(s.GetVal() - 1)
		return true, outcome{result: DoneResult{}}
	})

	if out.err != nil {
		return DoneResult{}, out.err
	}
	if out.result.Leader {
		b.logger.Info().Log("barrier: leader observed, broadcasting shutdown")
		b.broadcaster.Send(false)
	}
	return out.result, nil
}

// WaitResult reports how Wait resolved.
type WaitResult struct {
	// Cancelled is true if the barrier shut down via Cancel rather than
	// every worker calling Done normally.
	Cancelled bool
}

// Wait blocks until the barrier drains to zero workers or is cancelled,
// or until ctx is done, whichever happens first. ctx lets a caller
// abandon the wait itself without affecting the barrier's state.
func (b *ShutdownBarrier) Wait(ctx context.Context) (WaitResult, error) {
	// Subscribe before inspecting state, closing the race where shutdown
	// happens between the read and the subscribe.
	sub := b.broadcaster.Subscribe()

	type state int
	const (
		stillRunning state = iota
		alreadyCancelled
		alreadyShutdown
	)

	st := compound.Update(b.atom, func(s *bits.FlagU64) (bool, state) {
		if s.GetFlag() {
			return false, alreadyCancelled
		}
		if s.GetVal() == 0 {
			return false, alreadyShutdown
		}
		return false, stillRunning
	})

	switch st {
	case alreadyCancelled:
		return WaitResult{Cancelled: true}, nil
	case alreadyShutdown:
		return WaitResult{Cancelled: false}, nil
	}

	cancelled, err := sub.Recv(ctx)
	if err != nil {
		return WaitResult{}, err
	}
	return WaitResult{Cancelled: cancelled}, nil
}
