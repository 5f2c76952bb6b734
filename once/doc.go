// Package once provides Cell, a wait-free alternative to sync.OnceValue
// with a richer lifecycle (NotSet -> Setting -> Set -> Dead) supporting
// set-only, prepare-then-set, read-or-seal, and polling idioms.
//
// Every exported method is wait-free: a single compound.Update call with
// no retry-driven loop on contention — each operation either commits its
// own transition or observes a terminal state and returns in one CAS.
package once
