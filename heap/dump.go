package heap

import (
	"fmt"
	"io"
	"os"
)

// DumpHeap writes a terse, line-per-block rendering of the segment to w
// (os.Stdout if w is nil), in the spirit of the original allocator's
// dump_heap debugger helper. Output is gated by Config.DebugLevel:
// DebugOff writes nothing, DebugSummary writes only the totals line, and
// DebugTrace (the default) adds one line per block. The format itself is
// diagnostic only, not contractual (spec §6).
func (a *Allocator) DumpHeap(w io.Writer) {
	seg := a.seg
	if seg.cfg.DebugLevel == DebugOff {
		return
	}
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "segment [0x0, %#x): %d bytes used, %d used blocks, %d free blocks\n",
		seg.size, seg.nused, seg.numUsedBlocks, seg.numFreeBlocks)

	if seg.cfg.DebugLevel < DebugTrace {
		return
	}

	off := uint64(0)
	for {
		h := seg.headerAt(off)
		status := "Free"
		if h.allocated {
			status = "Used"
		}
		fmt.Fprintf(w, "  %#04x: %d %s%s\n", off, h.payload, status, a.v.dumpSuffix(seg, off))

		next, ok := seg.next(off)
		if !ok {
			return
		}
		off = next
	}
}
