package heap

// implicitVariant discovers free blocks by linear traversal of the whole
// segment (spec §4.2 implicit case). It carries no extra state: there is
// nothing to index, only the segment itself to walk.
type implicitVariant struct{}

// NewImplicitAllocator builds an allocator over mem that finds free blocks
// by walking every block from the segment start.
func NewImplicitAllocator(mem []byte, cfg *Config) (*Allocator, error) {
	return newAllocator(mem, cfg, implicitVariant{})
}

func (implicitVariant) minPayload(cfg *Config) uint64 { return cfg.Alignment }

func (implicitVariant) afterInit(seg *segment, firstFree uint64) {
	// No index to seed; free blocks are found lazily by walking the segment.
}

func (implicitVariant) findFree(seg *segment, n uint64) (uint64, bool) {
	off := uint64(0)
	for {
		h := seg.headerAt(off)
		if !h.allocated && h.payload >= n {
			return off, true
		}
		next, ok := seg.next(off)
		if !ok {
			return 0, false
		}
		off = next
	}
}

func (implicitVariant) afterSplit(seg *segment, newFree uint64) {
	// The implicit index is the segment itself; nothing to register.
}

func (implicitVariant) beforeAlloc(seg *segment, block uint64) {
	// Nothing to remove from: there is no separate free index.
}

func (implicitVariant) afterFree(seg *segment, block uint64) {
	// Implicit never coalesces; the freed block is simply rediscovered by
	// the next linear search (spec §4.5: "performs no coalescing").
}

func (implicitVariant) tryGrowInPlace(seg *segment, block uint64, n uint64) bool {
	return false
}

func (implicitVariant) checkIndex(seg *segment) error {
	return nil
}

func (implicitVariant) dumpSuffix(seg *segment, block uint64) string {
	return ""
}
