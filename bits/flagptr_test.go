package bits

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type alignedPayload struct {
	_ [0]uint64
	n int
}

func TestFlagPtr_RoundTrip(t *testing.T) {
	t.Parallel()

	values := []*alignedPayload{{n: 1}, {n: 2}, {n: 3}, nil}
	for _, v := range values {
		for tag := uint8(0); tag <= 7; tag++ {
			var f FlagPtr[alignedPayload]
			f.SetPtr(v)
			f.SetFlag(tag)
			assert.Equal(t, v, f.GetPtr())
			assert.Equal(t, tag, f.GetFlag())
		}
	}
}

func TestFlagPtr_SetPtr_MisalignedPanics(t *testing.T) {
	t.Parallel()

	var buf [16]byte
	misaligned := (*alignedPayload)(unsafe.Pointer(&buf[1]))

	var f FlagPtr[alignedPayload]
	assert.Panics(t, func() { f.SetPtr(misaligned) })
}

func TestFlagPtr_SetFlag_OutOfRangePanics(t *testing.T) {
	t.Parallel()
	var f FlagPtr[alignedPayload]
	assert.Panics(t, func() { f.SetFlag(8) })
}

func TestAlign8_ForcesAlignment(t *testing.T) {
	t.Parallel()
	type oddlyAligned struct {
		b bool
	}
	var a Align8[oddlyAligned]
	assert.Zero(t, uintptr(unsafe.Pointer(&a))%8)
}
