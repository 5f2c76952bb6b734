package bits

import "golang.org/x/exp/constraints"

// checkOverflow panics with msg if val exceeds max. Shared by FlagU64 and
// FlagU32's SetVal, which otherwise differ only in width.
func checkOverflow[T constraints.Unsigned](val, max T, msg string) {
	if val > max {
		panic(msg)
	}
}

// FlagU64 packs a 63-bit value into the upper bits of a uint64, with a
// 1-bit flag in bit 0.
//
// SetVal panics on overflow past MaxFlagU64Val rather than silently
// truncating into the flag bit — see DESIGN.md for the rationale.
type FlagU64 struct {
	val uint64
}

// MaxFlagU64Val is the largest value SetVal accepts without overflowing
// into the flag bit.
const MaxFlagU64Val = 1<<63 - 1

func (f FlagU64) GetVal() uint64 {
	return f.val >> 1
}

func (f FlagU64) GetFlag() bool {
	return f.val&0x1 == 1
}

// SetVal installs val in the upper 63 bits, preserving the flag bit.
// Panics if val exceeds MaxFlagU64Val (see the FlagU64 type doc).
func (f *FlagU64) SetVal(val uint64) {
	checkOverflow(val, uint64(MaxFlagU64Val), "bits: FlagU64.SetVal: value overflows 63 bits")
	f.val = (f.val & 0x1) | (val << 1)
}

func (f *FlagU64) SetFlag(flag bool) {
	if flag {
		f.val |= 0x1
	} else {
		f.val &^= 0x1
	}
}

func (f FlagU64) Raw() uint64   { return f.val }
func (f *FlagU64) SetRaw(v uint64) { f.val = v }

// FlagU32 is the 32-bit analogue of FlagU64: a 31-bit value in the upper
// bits, a 1-bit flag in bit 0.
type FlagU32 struct {
	val uint32
}

// MaxFlagU32Val is the largest value SetVal accepts without overflowing
// into the flag bit.
const MaxFlagU32Val = 1<<31 - 1

func (f FlagU32) GetVal() uint32 {
	return f.val >> 1
}

func (f FlagU32) GetFlag() bool {
	return f.val&0x1 == 1
}

// SetVal installs val in the upper 31 bits, preserving the flag bit.
// Panics if val exceeds MaxFlagU32Val.
func (f *FlagU32) SetVal(val uint32) {
	checkOverflow(val, uint32(MaxFlagU32Val), "bits: FlagU32.SetVal: value overflows 31 bits")
	f.val = (f.val & 0x1) | (val << 1)
}

func (f *FlagU32) SetFlag(flag bool) {
	if flag {
		f.val |= 0x1
	} else {
		f.val &^= 0x1
	}
}

func (f FlagU32) Raw() uint32   { return f.val }
func (f *FlagU32) SetRaw(v uint32) { f.val = v }
