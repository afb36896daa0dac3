// Package heap implements a dynamic memory allocator over a single
// fixed-size, caller-supplied contiguous byte region, in both the
// implicit (linear free-block traversal) and explicit (intrusive
// doubly-linked free list, rightward coalescing) flavors.
package heap

import (
	"unsafe"

	heaperrors "github.com/1a13/heap-allocator/internal/errors"
)

// Allocator is the shared engine behind the implicit and explicit
// strategies: everything spec §§3–4 describes that does not differ
// between the two strategies. It is not constructed directly — use
// NewImplicitAllocator or NewExplicitAllocator.
type Allocator struct {
	seg  *segment
	v    variant
	base unsafe.Pointer
}

// Stats is a point-in-time snapshot of the segment-state counters
// described in spec §3.5.
type Stats struct {
	SegmentSize uint64
	BytesInUse  uint64
	UsedBlocks  uint64
	FreeBlocks  uint64
}

func newAllocator(mem []byte, cfg *Config, v variant) (*Allocator, error) {
	validated, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	minBlock := HeaderSize + v.minPayload(validated)
	if uint64(len(mem)) < minBlock {
		return nil, &heaperrors.HeapError{
			Kind:      heaperrors.TooSmallSegment,
			Requested: uint32(minBlock),
			Available: uint32(len(mem)),
			Message:   "segment too small to host one minimum block",
		}
	}

	seg := &segment{
		mem:  mem,
		cfg:  validated,
		size: uint64(len(mem)),
	}
	seg.setHeaderAt(0, header{payload: seg.size - HeaderSize, allocated: false})
	seg.numFreeBlocks = 1

	a := &Allocator{seg: seg, v: v, base: unsafe.Pointer(&mem[0])}
	v.afterInit(seg, 0)
	return a, nil
}

// Stats returns the current segment-state counters.
func (a *Allocator) Stats() Stats {
	return Stats{
		SegmentSize: a.seg.size,
		BytesInUse:  a.seg.nused,
		UsedBlocks:  a.seg.numUsedBlocks,
		FreeBlocks:  a.seg.numFreeBlocks,
	}
}

// addrToPtr converts an in-segment payload offset to the unsafe.Pointer the
// public API hands back to callers.
func (a *Allocator) addrToPtr(payloadOff uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(a.base) + uintptr(payloadOff))
}

// ptrToBlock converts a payload pointer previously returned by Allocate
// back to the offset of its header.
func (a *Allocator) ptrToBlock(ptr unsafe.Pointer) uint64 {
	payloadOff := uint64(uintptr(ptr) - uintptr(a.base))
	return payloadOff - HeaderSize
}

// Allocate services a request for requested bytes of payload, per spec §4.4.
func (a *Allocator) Allocate(requested uint64) (unsafe.Pointer, error) {
	seg := a.seg
	if requested == 0 || requested > seg.cfg.MaxRequestSize {
		return nil, &heaperrors.HeapError{
			Kind:      heaperrors.InvalidRequest,
			Requested: uint32(requested),
			Message:   "requested size is zero or exceeds MaxRequestSize",
		}
	}

	n := seg.cfg.roundUp(requested)
	if n < a.v.minPayload(seg.cfg) {
		n = a.v.minPayload(seg.cfg)
	}

	if n+seg.nused > seg.size {
		return nil, &heaperrors.HeapError{
			Kind:      heaperrors.OutOfSpace,
			Requested: uint32(n),
			Available: uint32(seg.size - seg.nused),
			Message:   "request exceeds remaining segment capacity",
		}
	}

	block, ok := a.v.findFree(seg, n)
	if !ok {
		return nil, &heaperrors.HeapError{
			Kind:      heaperrors.OutOfSpace,
			Requested: uint32(n),
			Message:   "no free block large enough after placement search",
		}
	}

	a.splitSelected(block, n)
	a.v.beforeAlloc(seg, block)

	h := seg.headerAt(block)
	seg.setHeaderAt(block, header{payload: h.payload, allocated: true})
	seg.nused += h.footprint()
	seg.numUsedBlocks++
	seg.numFreeBlocks--

	return a.addrToPtr(payloadOffset(block)), nil
}

// splitSelected carves block down to payload size n if the variant's
// threshold is met, registering the new free remainder with the index.
func (a *Allocator) splitSelected(block, n uint64) {
	threshold := HeaderSize + a.v.minPayload(a.seg.cfg)
	if newFree, split := split(a.seg, block, n, threshold); split {
		a.seg.numFreeBlocks++
		a.v.afterSplit(a.seg, newFree)
	}
}

// Free releases the block at ptr, a no-op when ptr is nil (spec §4.5).
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	seg := a.seg
	block := a.ptrToBlock(ptr)
	h := seg.headerAt(block)

	seg.setHeaderAt(block, header{payload: h.payload, allocated: false})
	seg.nused -= h.footprint()
	seg.numUsedBlocks--
	seg.numFreeBlocks++

	a.v.afterFree(seg, block)
}

// Reallocate implements the state machine of spec §4.7.
func (a *Allocator) Reallocate(ptr unsafe.Pointer, newSize uint64) (unsafe.Pointer, error) {
	if ptr == nil {
		return a.Allocate(newSize)
	}
	if newSize == 0 {
		a.Free(ptr)
		return nil, nil
	}

	seg := a.seg
	block := a.ptrToBlock(ptr)
	n := seg.cfg.roundUp(newSize)
	if n < a.v.minPayload(seg.cfg) {
		n = a.v.minPayload(seg.cfg)
	}
	s := seg.headerAt(block).payload

	switch {
	case s > n: // shrink
		threshold := HeaderSize + a.v.minPayload(seg.cfg)
		before := seg.headerAt(block).payload
		if newFree, split := split(seg, block, n, threshold); split {
			seg.numFreeBlocks++
			a.v.afterSplit(seg, newFree)
			after := seg.headerAt(block).payload
			seg.nused -= before - after
		}
		return ptr, nil

	case s == n: // exact, possibly after rounding
		return ptr, nil

	default: // grow
		if a.v.tryGrowInPlace(seg, block, n) {
			return ptr, nil
		}

		newPtr, err := a.Allocate(newSize)
		if err != nil {
			return nil, err
		}
		copySize := int(s)
		src := unsafe.Slice((*byte)(ptr), copySize)
		dst := unsafe.Slice((*byte)(newPtr), copySize)
		copy(dst, src)
		a.Free(ptr)
		return newPtr, nil
	}
}
