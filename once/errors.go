package once

import "errors"

var (
	// ErrAlreadySet is returned by Set when the cell has already been set.
	ErrAlreadySet = errors.New("once: cell is already set")

	// ErrAttemptToReadWhenUnset is returned by Get when the cell has not
	// yet been set (and is not sealed either).
	ErrAttemptToReadWhenUnset = errors.New("once: attempt to read an unset cell")

	// ErrAttemptToSetConcurrently is returned by Set or GetOrPrepareToSet
	// when another goroutine is already mid-way through setting the cell.
	ErrAttemptToSetConcurrently = errors.New("once: attempt to set concurrently with another setter")

	// ErrUnpreparedForSet is returned by SetPrepared when the cell was not
	// left in the Setting state by a prior GetOrPrepareToSet call.
	ErrUnpreparedForSet = errors.New("once: SetPrepared called without a matching GetOrPrepareToSet")

	errUseAfterFree = errors.New("once: cell was observed in the Dead state by a live operation")
)
