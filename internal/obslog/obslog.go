// Package obslog provides the diagnostic logging used by the rest of this
// module. It exists so that barrier, once, and claim can report
// cold-path events (cancellation, leader election, use-after-free) without
// hard-wiring a specific logging backend into every package.
//
// Library code must never log from inside a compound.Update transformation:
// that would violate the transformation's purity contract (see compound
// package docs). Logging only ever happens after a transaction has
// committed (or just before a panic that aborts the goroutine).
package obslog

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the subset of logiface.Logger used by this module's packages.
type Logger = logiface.Logger[*stumpy.Event]

var (
	discard = logiface.L.New() // zero Option logiface.Logger is disabled by default
	current atomic.Pointer[Logger]
)

func init() {
	current.Store(discard)
}

// Discard returns the no-op logger used by default, so importing this
// module never produces unwanted output.
func Discard() *Logger { return discard }

// Default returns the process-wide default logger, as last set by
// SetDefault. Types that don't receive a WithLogger option fall back to
// this value at construction time.
func Default() *Logger { return current.Load() }

// SetDefault replaces the process-wide default logger. Passing nil restores
// the discard logger.
func SetDefault(l *Logger) {
	if l == nil {
		l = discard
	}
	current.Store(l)
}

// NewStumpy builds a logiface.Logger backed by the stumpy JSON encoder,
// writing to the given stumpy options (e.g. stumpy.WithWriter).
func NewStumpy(options ...stumpy.Option) *Logger {
	return logiface.L.New(stumpy.WithStumpy(options...))
}
