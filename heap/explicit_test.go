package heap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceFor(ptr unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}

func newExplicit(t *testing.T, size int) *Allocator {
	t.Helper()
	mem := make([]byte, size)
	a, err := NewExplicitAllocator(mem, DefaultConfig())
	require.NoError(t, err)
	return a
}

func TestExplicitScenario(t *testing.T) {
	a := newExplicit(t, 1024)

	p1, err := a.Allocate(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), offsetOf(a, p1))
	assert.Equal(t, uint64(104), a.seg.headerAt(0).payload)

	p2, err := a.Allocate(200)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), offsetOf(a, p2))

	ok, err := a.ValidateHeap()
	assert.True(t, ok)
	assert.NoError(t, err)
	_ = p2
}

// TestExplicitCoalescesOnFree exercises the explicit-only rightward merge
// (spec §4.5/§4.6): freeing a block whose right neighbor is already free
// must fold the two into a single larger free block, leaving the
// free-block count where it was before the free instead of one higher.
func TestExplicitCoalescesOnFree(t *testing.T) {
	a := newExplicit(t, 1024)

	p1, err := a.Allocate(64)
	require.NoError(t, err)
	p2, err := a.Allocate(64)
	require.NoError(t, err)
	p3, err := a.Allocate(64)
	require.NoError(t, err)

	block1 := a.ptrToBlock(p1)
	block2 := a.ptrToBlock(p2)

	a.Free(p2)
	before := a.Stats().FreeBlocks

	a.Free(p1)
	after := a.seg.headerAt(block1)
	assert.False(t, after.allocated)
	// merged payload = block1's 64 + header + block2's 64
	assert.Equal(t, uint64(64+HeaderSize+64), after.payload)
	assert.Less(t, a.Stats().FreeBlocks, before+1)

	next, ok := a.seg.next(block1)
	require.True(t, ok)
	assert.NotEqual(t, block2, next)

	ok2, err := a.ValidateHeap()
	assert.True(t, ok2)
	assert.NoError(t, err)

	a.Free(p3)
}

func TestExplicitFreeListLIFOOrder(t *testing.T) {
	a := newExplicit(t, 1024)

	p1, err := a.Allocate(32)
	require.NoError(t, err)
	p2, err := a.Allocate(32)
	require.NoError(t, err)

	a.Free(p1)
	a.Free(p2)

	ev := a.v.(*explicitVariant)
	assert.Equal(t, a.ptrToBlock(p2), ev.list.first)
}

// TestExplicitGrowInPlace covers spec §4.7's in-place growth path: freeing
// the right neighbor first, then growing into it via reallocate, must not
// move the pointer.
func TestExplicitGrowInPlace(t *testing.T) {
	a := newExplicit(t, 1024)

	p1, err := a.Allocate(32)
	require.NoError(t, err)
	p2, err := a.Allocate(32)
	require.NoError(t, err)

	dst := []byte{1, 2, 3, 4}
	copy(sliceFor(p1, 4), dst)

	a.Free(p2)
	q, err := a.Reallocate(p1, 64)
	require.NoError(t, err)
	assert.Equal(t, p1, q)
	assert.Equal(t, dst, sliceFor(q, 4))

	ok, err := a.ValidateHeap()
	assert.True(t, ok)
	assert.NoError(t, err)
}

// TestExplicitMinPayloadHoldsLinkWordsUnderSmallAlignment is a regression
// test: with Alignment configured below linkWordSize, minPayload must
// still floor at room for both free-list link words, or freeList.insert
// would write past a free block's payload into its neighbor (or past the
// end of the segment).
func TestExplicitMinPayloadHoldsLinkWordsUnderSmallAlignment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Alignment = 4

	assert.Equal(t, uint64(2*linkWordSize), explicitVariant{}.minPayload(cfg))

	mem := make([]byte, 256)
	a, err := NewExplicitAllocator(mem, cfg)
	require.NoError(t, err)

	var ptrs []unsafe.Pointer
	for i := 0; i < 4; i++ {
		p, err := a.Allocate(4)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	for _, p := range ptrs {
		a.Free(p)
	}

	ok, err := a.ValidateHeap()
	assert.True(t, ok)
	assert.NoError(t, err)
}

func TestExplicitValidateDetectsFreeListMismatch(t *testing.T) {
	a := newExplicit(t, 1024)

	p, err := a.Allocate(32)
	require.NoError(t, err)
	_ = p

	ev := a.v.(*explicitVariant)
	a.seg.numFreeBlocks = 99
	err = ev.checkIndex(a.seg)
	assert.Error(t, err)
}
