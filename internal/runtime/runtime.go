// Package runtime owns the caller-side byte region a heap.Allocator is
// handed, standing in for the OS-level acquisition spec.md declares out of
// scope for the core allocator.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// SegmentHost owns a fixed-size []byte arena and tracks coarse utilization
// stats for it. heap.Allocator has no dependency on SegmentHost — the
// heap constructors accept any []byte — but it is a convenient way for callers (demo
// commands, tests, benchmarks) to obtain a segment and report on it,
// adapted from a cleanup-list memory-pool wrapper.
type SegmentHost struct {
	mu sync.RWMutex // protects segment and cleanup

	segment []byte

	bytesInUse atomic.Uint64
	allocs     atomic.Uint64
	frees      atomic.Uint64

	cleanup []func() error
}

// NewSegmentHost allocates a size-byte arena for the caller to hand to
// heap.NewImplicitAllocator or heap.NewExplicitAllocator.
func NewSegmentHost(size uint32) *SegmentHost {
	return &SegmentHost{segment: make([]byte, size)}
}

// Segment returns the backing byte slice.
func (h *SegmentHost) Segment() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.segment
}

// AddCleanup registers a func that will run when Close() is invoked.
func (h *SegmentHost) AddCleanup(f func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanup = append(h.cleanup, f)
}

// Close runs every registered cleanup func, returning the last error seen.
func (h *SegmentHost) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var last error
	for _, f := range h.cleanup {
		if err := f(); err != nil {
			last = err
		}
	}
	return last
}

// MemStats is a point-in-time snapshot of segment utilization.
type MemStats struct {
	BytesInUse uint64
	Allocs     uint64
	Frees      uint64
}

// Stats returns the current utilization snapshot.
func (h *SegmentHost) Stats() MemStats {
	return MemStats{
		BytesInUse: h.bytesInUse.Load(),
		Allocs:     h.allocs.Load(),
		Frees:      h.frees.Load(),
	}
}

// NoteAlloc records that footprint bytes were handed out by the allocator
// riding on this segment. Callers wire this to heap.Allocator's return
// value; it is purely observational bookkeeping for SegmentHost.Stats.
func (h *SegmentHost) NoteAlloc(footprint uint32) {
	h.bytesInUse.Add(uint64(footprint))
	h.allocs.Add(1)
}

// NoteFree is the Free-side counterpart to NoteAlloc.
func (h *SegmentHost) NoteFree(footprint uint32) {
	if footprint == 0 {
		return
	}
	h.bytesInUse.Add(^uint64(footprint - 1))
	h.frees.Add(1)
}

// Bounds reports the byte range of the underlying segment for diagnostics.
func (h *SegmentHost) Bounds() (start, end uint32, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.segment) == 0 {
		return 0, 0, fmt.Errorf("segment host: empty segment")
	}
	return 0, uint32(len(h.segment)), nil
}
