package heap

// variant captures the handful of ways the implicit and explicit
// strategies differ (spec §§3.3–3.4, 4.2, 4.6–4.7): minimum payload size,
// free-block discovery, and what happens around a split/allocate/free
// besides the shared header/counter bookkeeping in core.go.
type variant interface {
	// minPayload is the smallest payload size a block of this variant may
	// ever have (spec §3.3), as a function of the configured alignment.
	minPayload(cfg *Config) uint64

	// afterInit is called once, right after Init installs the segment's
	// initial single free block, so the variant can seed its index.
	afterInit(seg *segment, firstFree uint64)

	// findFree returns the first-fit free block (traversal order per
	// variant) with payload size >= n.
	findFree(seg *segment, n uint64) (uint64, bool)

	// afterSplit is invoked with the address of a newly carved trailing
	// free block, immediately after split() writes its header.
	afterSplit(seg *segment, newFree uint64)

	// beforeAlloc is invoked with the block chosen by findFree, just
	// before its allocated bit is set.
	beforeAlloc(seg *segment, block uint64)

	// afterFree is invoked with a block that was just marked free by
	// Free, so the variant can index it (and, for explicit, coalesce
	// right per spec §4.6).
	afterFree(seg *segment, block uint64)

	// tryGrowInPlace attempts spec §4.7's explicit in-place grow path; it
	// always returns false for the implicit variant.
	tryGrowInPlace(seg *segment, block uint64, n uint64) bool

	// checkIndex runs the variant-specific half of ValidateHeap (spec
	// §3.6's free-list soundness clause); nil for implicit.
	checkIndex(seg *segment) error

	// dumpSuffix returns extra per-block text for DumpHeap (explicit
	// blocks show their free-list neighbors).
	dumpSuffix(seg *segment, block uint64) string
}
