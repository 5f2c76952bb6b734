// Package claim implements a multi-producer, single-consumer
// write-ordering queue: Push accounts for each item's size and reports
// whether the pusher acquired exclusive consumption rights (the "claim"),
// and ConsumeOrReleaseClaim lets the claim holder drain the queue
// until it observes emptiness, at which point it releases the claim for
// whichever future pusher next acquires it.
//
// Invariants: the claim bit is set whenever the queue is non-empty; the
// running offset is monotonic non-decreasing; at most one caller holds
// the claim at a time.
package claim
