package heap

// split conditionally carves a trailing free block off block (currently of
// payload size S) so that it ends up with payload size exactly n (spec
// §4.3). The caller's allocated bit is preserved. Returns the address of
// the new free block and true if a split happened.
//
// threshold is the variant's minimum recoverable remainder: HeaderSize +
// minPayload. Below it, the excess becomes internal padding.
func split(seg *segment, block, n, threshold uint64) (uint64, bool) {
	h := seg.headerAt(block)
	s := h.payload
	if s-n < threshold {
		return 0, false
	}

	newFree := block + HeaderSize + n
	seg.setHeaderAt(newFree, header{payload: s - n - HeaderSize, allocated: false})
	seg.setHeaderAt(block, header{payload: n, allocated: h.allocated})
	return newFree, true
}
