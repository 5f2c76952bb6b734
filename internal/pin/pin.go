// Package pin exists because a compound.Atom stores its contents as plain
// integer bits, not as a Go pointer. A *T whose only representation is the
// integer bits packed into a compound.Atom's word is, as far as the
// tracing garbage collector is concerned, not a pointer at all, and the
// object it refers to can be collected out from under the data structure.
//
// pin.Pin/pin.Unpin keep a process-wide reference-counted registry keyed
// by address, giving any object that is about to become reachable only
// through packed bits a real, GC-visible root for exactly as long as that
// is true. Callers pin before exposing an address through a compound word
// and unpin as soon as a normal Go-typed reference supersedes it (a
// struct field, a local variable, a returned value) — see list.Node and
// once.Cell for the two call sites in this module.
package pin

import (
	"sync"
	"unsafe"
)

var (
	mu       sync.Mutex
	refcount = map[unsafe.Pointer]int{}
	keepAlive = map[unsafe.Pointer]any{}
)

// Pin registers p, incrementing its reference count. p must be a pointer
// returned by new/make or taking the address of a heap-escaping value —
// never nil, never a pointer into packed bits that hasn't already been
// pinned.
func Pin(p unsafe.Pointer) {
	if p == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	refcount[p]++
	keepAlive[p] = p
}

// Unpin releases one reference previously registered with Pin. Once the
// count reaches zero the registry drops its root and the object becomes
// ordinary garbage, collected whenever nothing else references it.
func Unpin(p unsafe.Pointer) {
	if p == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	refcount[p]--
	if refcount[p] <= 0 {
		delete(refcount, p)
		delete(keepAlive, p)
	}
}
