package heap

import (
	"fmt"

	heaperrors "github.com/1a13/heap-allocator/internal/errors"
)

// ValidateHeap checks every invariant of spec §3.6. It returns (true, nil)
// when the segment is consistent; otherwise it returns (false, err) with
// err describing which invariant failed. Config.OnInconsistency, if set,
// is invoked before returning with the underlying invariant error (whose
// text becomes the returned error's Message) — the translation of the original
// allocator's breakpoint() debugger hook (see SPEC_FULL.md §4).
func (a *Allocator) ValidateHeap() (bool, error) {
	err := a.validate()
	if err != nil {
		if a.seg.cfg.OnInconsistency != nil {
			a.seg.cfg.OnInconsistency(err)
		}
		return false, &heaperrors.HeapError{
			Kind:    heaperrors.StructuralInconsistency,
			Message: err.Error(),
		}
	}
	return true, nil
}

func (a *Allocator) validate() error {
	seg := a.seg
	minPayload := a.v.minPayload(seg.cfg)

	if seg.nused > seg.size {
		return fmt.Errorf("nused (%d) exceeds segment size (%d)", seg.nused, seg.size)
	}

	var usedBlocks, freeBlocks, nused uint64
	off := uint64(0)
	for {
		h := seg.headerAt(off)
		if off%seg.cfg.Alignment != 0 {
			return fmt.Errorf("block at offset %d is not %d-byte aligned", off, seg.cfg.Alignment)
		}
		if h.payload < minPayload {
			return fmt.Errorf("block at offset %d has payload %d below the minimum %d", off, h.payload, minPayload)
		}
		if h.allocated {
			usedBlocks++
			nused += h.footprint()
		} else {
			freeBlocks++
		}

		next, ok := seg.next(off)
		if !ok {
			if off+h.footprint() != seg.size {
				return fmt.Errorf("last block at offset %d (footprint %d) does not end exactly at segment end %d", off, h.footprint(), seg.size)
			}
			break
		}
		off = next
	}

	if usedBlocks != seg.numUsedBlocks {
		return fmt.Errorf("walked %d used blocks, counter says %d", usedBlocks, seg.numUsedBlocks)
	}
	if freeBlocks != seg.numFreeBlocks {
		return fmt.Errorf("walked %d free blocks, counter says %d", freeBlocks, seg.numFreeBlocks)
	}
	if nused != seg.nused {
		return fmt.Errorf("walked nused %d, counter says %d", nused, seg.nused)
	}

	if err := a.v.checkIndex(seg); err != nil {
		return err
	}
	return nil
}
