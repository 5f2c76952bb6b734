// Package compound implements the transactional primitive the rest of this
// module is built on: an atomically-updated "compound word", a machine
// integer whose bit pattern is reinterpreted as a small user-defined record,
// mutated by a caller-supplied pure transformation, and committed by
// hardware compare-and-swap.
//
// Each data-structure package in this module (stack, claim, once, barrier)
// composes exactly one Atom instance and implements its public contract
// entirely in terms of Update; bits and list supply the packed fields and
// chain storage those packages build on. Nothing outside this package ever
// touches the underlying word directly.
package compound
