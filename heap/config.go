package heap

import (
	"github.com/cznic/mathutil"

	heaperrors "github.com/1a13/heap-allocator/internal/errors"
)

// DefaultAlignment and DefaultMaxRequestSize match the constants the
// original C allocator was benchmarked against (8-byte alignment on a
// 64-bit target, no externally imposed request ceiling beyond what the
// segment can hold).
const (
	DefaultAlignment      = 8
	DefaultMaxRequestSize = 1 << 30 // 1 GiB, generous but finite
)

// DebugLevel gates how much DumpHeap writes, mirroring (in miniature) the
// teacher's MemoryDebugger level scale.
type DebugLevel int

const (
	// DebugOff suppresses DumpHeap entirely.
	DebugOff DebugLevel = iota
	// DebugSummary writes only the segment-wide summary line.
	DebugSummary
	// DebugTrace writes the summary plus one line per block.
	DebugTrace
)

// Config holds the tunables consumed from the environment per spec §6.
// Alignment must be a power of two that evenly divides HeaderSize (so
// every block header lands back on an Alignment boundary); the explicit
// variant additionally floors its minimum payload at the free list's
// link-word width regardless of Alignment (see explicitVariant.minPayload).
type Config struct {
	// Alignment is applied to both payload sizes and block addresses.
	Alignment uint64
	// MaxRequestSize bounds a single Allocate/Reallocate request.
	MaxRequestSize uint64
	// OnInconsistency, if set, is invoked by ValidateHeap immediately
	// before it reports failure — the Go stand-in for the original
	// allocator's breakpoint() debugger hook.
	OnInconsistency func(error)
	// DebugLevel controls how much DumpHeap writes.
	DebugLevel DebugLevel

	// alignShift is log2(max(Alignment, 8)), derived once at validation time.
	alignShift uint
}

// DefaultConfig returns the allocator's default tunables.
func DefaultConfig() *Config {
	return &Config{
		Alignment:      DefaultAlignment,
		MaxRequestSize: DefaultMaxRequestSize,
		DebugLevel:     DebugTrace,
	}
}

// validate checks the config and derives alignShift, returning a copy so
// the caller's Config is never mutated out from under it.
func (c *Config) validate() (*Config, error) {
	if c == nil {
		c = DefaultConfig()
	}
	cfg := *c
	if cfg.Alignment == 0 || cfg.Alignment&(cfg.Alignment-1) != 0 {
		return nil, heaperrors.New(heaperrors.TooSmallSegment, "alignment %d is not a power of two", cfg.Alignment)
	}
	// HeaderSize must be a multiple of Alignment (spec §3.1) so that every
	// block header address stays Alignment-aligned as payloads (themselves
	// Alignment-sized multiples) accumulate across the segment.
	if HeaderSize%cfg.Alignment != 0 {
		return nil, heaperrors.New(heaperrors.TooSmallSegment, "header size %d is not a multiple of alignment %d", HeaderSize, cfg.Alignment)
	}
	if cfg.MaxRequestSize == 0 {
		return nil, heaperrors.New(heaperrors.TooSmallSegment, "max request size must be positive")
	}
	// The header word keeps its three low bits for flags, so payload sizes
	// are rounded to at least 8 bytes even when Alignment is smaller.
	granularity := cfg.Alignment
	if g := ^sizeMask + 1; granularity < g {
		granularity = g
	}
	cfg.alignShift = uint(mathutil.BitLen(int(granularity) - 1))
	return &cfg, nil
}

// roundUp rounds n up to the nearest multiple of the larger of the
// configured alignment and 8 (the header's flag-bit width), using the
// power-of-two shift derived in validate rather than a raw mask.
func (c *Config) roundUp(n uint64) uint64 {
	align := uint64(1) << c.alignShift
	return ((n + align - 1) >> c.alignShift) << c.alignShift
}
