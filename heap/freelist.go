package heap

import "encoding/binary"

// Free-block payload layout (explicit variant only): the first two machine
// words of a free block's payload hold its prev/next links in the
// intrusive doubly-linked free list (spec §3.4). Allocated blocks never
// read or write these bytes — they belong to the caller once allocated.
// This width is fixed regardless of Config.Alignment; explicitVariant.
// minPayload guarantees every free block has room for both words.
const linkWordSize = 8

func readLink(mem []byte, payloadOff uint64, which int) uint64 {
	off := payloadOff + uint64(which*linkWordSize)
	return binary.LittleEndian.Uint64(mem[off : off+linkWordSize])
}

func writeLink(mem []byte, payloadOff uint64, which int, value uint64) {
	off := payloadOff + uint64(which*linkWordSize)
	binary.LittleEndian.PutUint64(mem[off:off+linkWordSize], value)
}

func prevOf(mem []byte, blockOff uint64) uint64 { return readLink(mem, payloadOffset(blockOff), 0) }
func nextOf(mem []byte, blockOff uint64) uint64 { return readLink(mem, payloadOffset(blockOff), 1) }

func setPrev(mem []byte, blockOff, value uint64) { writeLink(mem, payloadOffset(blockOff), 0, value) }
func setNext(mem []byte, blockOff, value uint64) { writeLink(mem, payloadOffset(blockOff), 1, value) }

// freeList is the explicit variant's free-block index: a head pointer plus
// the prev/next links threaded through the free blocks' own payload bytes.
type freeList struct {
	seg   *segment
	first uint64 // nullAddr iff no free block exists
}

// insert adds block at the head of the list (LIFO, per spec §4.3/§4.5).
func (fl *freeList) insert(block uint64) {
	if fl.first == nullAddr {
		fl.first = block
		setPrev(fl.seg.mem, block, nullAddr)
		setNext(fl.seg.mem, block, nullAddr)
		return
	}
	setPrev(fl.seg.mem, fl.first, block)
	setPrev(fl.seg.mem, block, nullAddr)
	setNext(fl.seg.mem, block, fl.first)
	fl.first = block
}

// remove unlinks block from the list. block must currently be a member.
func (fl *freeList) remove(block uint64) {
	prev := prevOf(fl.seg.mem, block)
	next := nextOf(fl.seg.mem, block)

	if block == fl.first {
		fl.first = next
	}
	if prev != nullAddr {
		setNext(fl.seg.mem, prev, next)
	}
	if next != nullAddr {
		setPrev(fl.seg.mem, next, prev)
	}
}

// find returns the first free block with payload size >= n, in list order.
func (fl *freeList) find(n uint64) (uint64, bool) {
	for cur := fl.first; cur != nullAddr; cur = nextOf(fl.seg.mem, cur) {
		if fl.seg.headerAt(cur).payload >= n {
			return cur, true
		}
	}
	return 0, false
}
