package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeapFreshSegment(t *testing.T) {
	for _, variant := range []string{"implicit", "explicit"} {
		t.Run(variant, func(t *testing.T) {
			mem := make([]byte, 256)
			var a *Allocator
			var err error
			if variant == "implicit" {
				a, err = NewImplicitAllocator(mem, DefaultConfig())
			} else {
				a, err = NewExplicitAllocator(mem, DefaultConfig())
			}
			require.NoError(t, err)

			ok, err := a.ValidateHeap()
			assert.True(t, ok)
			assert.NoError(t, err)
		})
	}
}

func TestValidateHeapDetectsNusedOverflow(t *testing.T) {
	a, _ := newImplicit(t, 256)
	a.seg.nused = a.seg.size + 1

	ok, err := a.ValidateHeap()
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValidateHeapDetectsCounterMismatch(t *testing.T) {
	a, _ := newImplicit(t, 256)
	a.seg.numUsedBlocks = 7

	ok, err := a.ValidateHeap()
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValidateHeapDetectsCorruptedBlockSize(t *testing.T) {
	a, _ := newImplicit(t, 256)
	_, err := a.Allocate(16)
	require.NoError(t, err)

	// Corrupt the first block's payload so its footprint ends inside the
	// next block's payload, where the walk reads a zero-size "header".
	h := a.seg.headerAt(0)
	a.seg.setHeaderAt(0, header{payload: h.payload + 8, allocated: h.allocated})

	ok, err := a.ValidateHeap()
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestValidateHeapInvokesOnInconsistency(t *testing.T) {
	mem := make([]byte, 256)
	var captured error
	cfg := DefaultConfig()
	cfg.OnInconsistency = func(err error) { captured = err }

	a, err := NewImplicitAllocator(mem, cfg)
	require.NoError(t, err)
	a.seg.nused = a.seg.size + 1

	ok, err := a.ValidateHeap()
	assert.False(t, ok)
	assert.Error(t, err)
	assert.NotNil(t, captured)
}

func TestValidateHeapDetectsShortSegmentCoverage(t *testing.T) {
	a, _ := newImplicit(t, 256)
	h := a.seg.headerAt(0)
	a.seg.setHeaderAt(0, header{payload: h.payload - 16, allocated: h.allocated})

	ok, err := a.ValidateHeap()
	assert.False(t, ok)
	assert.Error(t, err)
}
