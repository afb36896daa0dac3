package heap

import "fmt"

// explicitVariant discovers free blocks through an intrusive doubly-linked
// list threaded through their payload bytes (spec §3.4, §4.2 explicit
// case), and supports in-place growth by coalescing rightward neighbors
// (spec §4.6–§4.7).
type explicitVariant struct {
	list *freeList
}

// NewExplicitAllocator builds an allocator over mem that indexes free
// blocks with a LIFO free list and coalesces right on free and on grow.
func NewExplicitAllocator(mem []byte, cfg *Config) (*Allocator, error) {
	ev := &explicitVariant{list: &freeList{first: nullAddr}}
	return newAllocator(mem, cfg, ev)
}

// minPayload must be large enough to hold both the variant's alignment
// requirement and the two 8-byte prev/next link words freeList stores
// in every free block's payload (freelist.go's linkWordSize), regardless
// of how small Alignment is configured.
func (explicitVariant) minPayload(cfg *Config) uint64 {
	min := 2 * cfg.Alignment
	if linkSpace := uint64(2 * linkWordSize); linkSpace > min {
		min = linkSpace
	}
	return min
}

func (ev *explicitVariant) afterInit(seg *segment, firstFree uint64) {
	ev.list.seg = seg
	ev.list.first = nullAddr
	ev.list.insert(firstFree)
}

func (ev *explicitVariant) findFree(seg *segment, n uint64) (uint64, bool) {
	return ev.list.find(n)
}

func (ev *explicitVariant) afterSplit(seg *segment, newFree uint64) {
	ev.list.insert(newFree)
}

func (ev *explicitVariant) beforeAlloc(seg *segment, block uint64) {
	ev.list.remove(block)
}

func (ev *explicitVariant) afterFree(seg *segment, block uint64) {
	ev.list.insert(block)
	ev.coalesceRight(seg, block)
}

// coalesceRight repeatedly merges block with its immediate right neighbor
// while that neighbor is free and within the segment (spec §4.6).
func (ev *explicitVariant) coalesceRight(seg *segment, block uint64) {
	for {
		h := seg.headerAt(block)
		right := block + h.footprint()
		if right >= seg.size {
			return
		}
		rh := seg.headerAt(right)
		if rh.allocated {
			return
		}
		ev.list.remove(right)
		seg.setHeaderAt(block, header{payload: h.payload + rh.footprint(), allocated: h.allocated})
		seg.numFreeBlocks--
	}
}

// tryGrowInPlace implements spec §4.7's explicit grow path: coalesce right
// until the right neighbor is allocated or the segment ends, then split
// back down to n if the result is large enough.
func (ev *explicitVariant) tryGrowInPlace(seg *segment, block uint64, n uint64) bool {
	before := seg.headerAt(block).payload
	ev.coalesceRight(seg, block)
	after := seg.headerAt(block).payload
	if after < n {
		// The merged neighbors stay part of this still-allocated block.
		seg.nused += after - before
		return false
	}

	threshold := HeaderSize + ev.minPayload(seg.cfg)
	if newFree, split := split(seg, block, n, threshold); split {
		seg.numFreeBlocks++
		ev.afterSplit(seg, newFree)
	}
	final := seg.headerAt(block).payload
	seg.nused += final - before
	return true
}

func (ev *explicitVariant) checkIndex(seg *segment) error {
	seen := make(map[uint64]bool)
	count := uint64(0)
	for cur := ev.list.first; cur != nullAddr; cur = nextOf(seg.mem, cur) {
		if cur >= seg.size {
			return fmt.Errorf("free list node at out-of-bounds offset %d", cur)
		}
		if seen[cur] {
			return fmt.Errorf("free list is cyclic at offset %d", cur)
		}
		seen[cur] = true
		if seg.headerAt(cur).allocated {
			return fmt.Errorf("free list node at offset %d is marked allocated", cur)
		}
		count++
	}
	if count != seg.numFreeBlocks {
		return fmt.Errorf("free list length %d does not match num_freeblocks %d", count, seg.numFreeBlocks)
	}
	return nil
}

func (ev *explicitVariant) dumpSuffix(seg *segment, block uint64) string {
	if seg.headerAt(block).allocated {
		return ""
	}
	prev := prevOf(seg.mem, block)
	next := nextOf(seg.mem, block)
	return fmt.Sprintf(", prev=%s, next=%s", formatAddr(prev), formatAddr(next))
}

func formatAddr(a uint64) string {
	if a == nullAddr {
		return "nil"
	}
	return fmt.Sprintf("%#x", a)
}
