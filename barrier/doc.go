// Package barrier implements ShutdownBarrier, a dynamic (runtime
// registrable) shutdown coordination primitive: an unknown-in-advance
// number of workers can Spawn into the barrier, each must eventually call
// Done, and any number of goroutines can Wait for the barrier to either
// finish normally or be Cancelled. Exactly one Done call observes itself
// as the leader — the one that brings the worker count to zero without
// cancellation — so applications can run shutdown cleanup exactly once.
package barrier
