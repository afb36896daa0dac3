package heap

import "encoding/binary"

// HeaderSize is the fixed width of a block header: one machine word.
const HeaderSize = 8

// allocBit marks a block allocated when set; reservedMask must always read
// zero (bits [1..2] of the header word are reserved per spec §3.2).
const (
	allocBit     uint64 = 1
	reservedMask uint64 = 0b110
	sizeMask     uint64 = ^uint64(0b111)
)

// header is the decoded view of the word at a block's address. payload is
// the number of bytes following the header, up to the next block's header.
type header struct {
	payload   uint64
	allocated bool
}

// readHeader decodes the header word at byte offset off within mem.
func readHeader(mem []byte, off uint64) header {
	word := binary.LittleEndian.Uint64(mem[off : off+HeaderSize])
	return header{
		payload:   word & sizeMask,
		allocated: word&allocBit != 0,
	}
}

// writeHeader encodes and stores a header word at byte offset off.
func writeHeader(mem []byte, off uint64, h header) {
	word := h.payload & sizeMask
	if h.allocated {
		word |= allocBit
	}
	binary.LittleEndian.PutUint64(mem[off:off+HeaderSize], word)
}

// footprint returns a block's total size on the segment: header + payload.
func (h header) footprint() uint64 {
	return HeaderSize + h.payload
}
