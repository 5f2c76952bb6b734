// Package stack implements a lock-free stack built on compound.Atom: push
// a node, and atomically detach the entire chain as a consuming iterator
// ("pop-all").
//
// Stack.PopAll is the read-set-equivalent operation: it only exchanges the
// head word with nil and dereferences nothing else, so it cannot suffer
// the ABA problem a naive single-element Pop would. NonceStack offers a
// per-element Pop for comparison, at the cost of a documented ABA bug —
// see its doc comment and DESIGN.md.
package stack
