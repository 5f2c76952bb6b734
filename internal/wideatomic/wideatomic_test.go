package wideatomic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_Uint64_CompareAndSwap(t *testing.T) {
	t.Parallel()
	s := NewSlot[uint64]()
	assert.Equal(t, uint64(0), s.Load())

	actual, swapped := s.CompareAndSwap(0, 42)
	assert.True(t, swapped)
	assert.Equal(t, uint64(42), actual)
	assert.Equal(t, uint64(42), s.Load())

	actual, swapped = s.CompareAndSwap(0, 7)
	assert.False(t, swapped)
	assert.Equal(t, uint64(42), actual)
}

func TestSlot_Dword_CompareAndSwap(t *testing.T) {
	t.Parallel()
	s := NewSlot[[2]uint64]()
	assert.Equal(t, [2]uint64{}, s.Load())

	want := [2]uint64{1, 2}
	actual, swapped := s.CompareAndSwap([2]uint64{}, want)
	assert.True(t, swapped)
	assert.Equal(t, want, actual)
	assert.Equal(t, want, s.Load())

	actual, swapped = s.CompareAndSwap([2]uint64{}, [2]uint64{9, 9})
	assert.False(t, swapped)
	assert.Equal(t, want, actual)
}

func TestNewSlot_UnsupportedWordPanics(t *testing.T) {
	t.Parallel()
	type notAWord uint64
	assert.Panics(t, func() {
		NewSlot[notAWord]()
	})
}

func TestHasNativeDWordCAS_ExercisedByDwordSlotConstruction(t *testing.T) {
	t.Parallel()
	// newDwordSlot consults hasNativeDWordCAS once per process to decide
	// whether to log the mutex-fallback diagnostic. Constructing a dword
	// slot must not panic regardless of what the current architecture
	// reports.
	assert.NotPanics(t, func() {
		_ = NewSlot[[2]uint64]()
	})
}
