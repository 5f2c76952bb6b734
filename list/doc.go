// Package list provides the intrusive singly-linked chain storage used by
// stack and claim: a Node holding a value and a raw link to the next node,
// and a consuming Iterator that owns a chain and frees each node as it
// yields.
//
// Node addresses are, for the brief window between creation and being
// linked into (or unlinked from) a compound.Atom's packed word, pinned via
// internal/pin — see that package's doc comment for why the garbage
// collector requires this.
package list
