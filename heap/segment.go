package heap

// nullAddr is the sentinel for "no block" — used for first_free and for
// free-list prev/next links, distinct from any real offset (0 is a valid
// offset: the first block always starts at the segment base).
const nullAddr = ^uint64(0)

// segment is the process-wide (here: per-Allocator) state described in
// spec §3.5. Addresses are byte offsets into mem, not raw pointers — the
// design-note (b) encoding: "integer indices into the segment treated as a
// byte array with explicit codec for the link words".
type segment struct {
	mem  []byte
	cfg  *Config
	size uint64

	nused         uint64
	numUsedBlocks uint64
	numFreeBlocks uint64
}

func (s *segment) end() uint64 { return s.size }

func (s *segment) headerAt(off uint64) header { return readHeader(s.mem, off) }

func (s *segment) setHeaderAt(off uint64, h header) { writeHeader(s.mem, off, h) }

// next returns the offset of the block immediately following the one at
// off, or false if off's block is the last one in the segment.
func (s *segment) next(off uint64) (uint64, bool) {
	h := s.headerAt(off)
	n := off + h.footprint()
	if n >= s.size {
		return 0, false
	}
	return n, true
}

// payloadOffset is the byte offset of the payload following the header at
// blockOff.
func payloadOffset(blockOff uint64) uint64 { return blockOff + HeaderSize }
