// Package bits provides reusable accessors for stealing low bits out of a
// pointer or an integer, so that a compound.Atom's record can carry a
// pointer/flag or value/flag pair inside a single machine word.
//
// FlagPtr assumes 8-byte pointer alignment; Align8 forces that alignment on
// a payload of otherwise-unknown alignment. FlagU64/FlagU32 steal the
// lowest bit of an integer for a boolean flag.
//
// None of these types perform atomic operations themselves — they are pure
// bit-twiddling helpers operated on the scratch record inside a
// compound.Update transformation.
package bits
