package permute

import "encoding/binary"

// Bit-packed block constants. Every variable's bit range lives entirely
// within one 64-bit block.
const (
	BitsPerBlock = 64
	blockShift   = 6
	bitIndexMask = BitsPerBlock - 1
)

// maxBlockCount bounds the addressable block window (2^22 bit indices).
const maxBlockCount = 0xFFFF

// BitSet is a sparse sequence of bits stored as a run of 64-bit blocks.
//
// Only the blocks in [blockStart, blockStart+blockCount) are stored; bits
// outside that window read as zero. A set holding at most one block keeps
// it inline without heap allocation, which covers the common case of a
// shader depending on no more than 64 bits of packed variables.
//
// The zero value is an empty set ready for use.
type BitSet struct {
	blockCount    uint16
	blockCapacity uint16 // <= 1 means the inline block is the storage
	blockStart    uint16

	inline   [1]uint64
	external []uint64
}

func blockIndex(bitIndex uint32) uint32 { return bitIndex >> blockShift }
func bitInBlock(bitIndex uint32) uint32 { return bitIndex & bitIndexMask }

// blocks returns the backing storage, inline or external.
func (b *BitSet) blocks() []uint64 {
	if b.blockCapacity <= 1 {
		return b.inline[:]
	}
	return b.external
}

// BlockCount returns the number of stored blocks.
func (b *BitSet) BlockCount() uint32 { return uint32(b.blockCount) }

// BlockStart returns the index of the first stored block.
func (b *BitSet) BlockStart() uint32 { return uint32(b.blockStart) }

// BlockEnd returns the index one past the last stored block.
func (b *BitSet) BlockEnd() uint32 { return uint32(b.blockStart) + uint32(b.blockCount) }

func (b *BitSet) inAllocatedRange(block uint32) bool {
	return block >= uint32(b.blockStart) && block < b.BlockEnd()
}

// Equal reports whether two sets hold the same logical bits over the same
// block window. Capacity and inline-vs-external storage are ignored.
func (b *BitSet) Equal(other *BitSet) bool {
	if b.blockCount != other.blockCount || b.blockStart != other.blockStart {
		return false
	}

	lhs, rhs := b.blocks(), other.blocks()
	for i := uint32(0); i < uint32(b.blockCount); i++ {
		if lhs[i] != rhs[i] {
			return false
		}
	}
	return true
}

// SetBitValue sets or clears the bit at the given index, growing the block
// window to cover it if necessary.
func (b *BitSet) SetBitValue(index uint32, value bool) {
	b.ensureAllocatedRange(index, 1)

	mask := uint64(1) << bitInBlock(index)

	blk := &b.blocks()[blockIndex(index)-uint32(b.blockStart)]
	if value {
		*blk |= mask
	} else {
		*blk &^= mask
	}
}

// SetBitValues writes numBits bits starting at startIndex. The range must
// not cross a block boundary.
func (b *BitSet) SetBitValues(startIndex, numBits uint32, values uint64) {
	b.ensureAllocatedRange(startIndex, numBits)

	shift := bitInBlock(startIndex)
	mask := ((uint64(1) << numBits) - 1) << shift

	blk := &b.blocks()[blockIndex(startIndex)-uint32(b.blockStart)]
	*blk = (*blk &^ mask) | ((values << shift) & mask)
}

// SetBitOnes sets numBits consecutive bits starting at startIndex. The
// range must not cross a block boundary.
func (b *BitSet) SetBitOnes(startIndex, numBits uint32) {
	b.ensureAllocatedRange(startIndex, numBits)

	shift := bitInBlock(startIndex)
	mask := ((uint64(1) << numBits) - 1) << shift

	b.blocks()[blockIndex(startIndex)-uint32(b.blockStart)] |= mask
}

// GetBitValue returns the bit at the given index. The containing block must
// be inside the allocated window.
func (b *BitSet) GetBitValue(index uint32) bool {
	return b.GetBitValues(index, 1) != 0
}

// GetBitValues reads numBits bits starting at startIndex. The range must
// not cross a block boundary and the containing block must be inside the
// allocated window.
func (b *BitSet) GetBitValues(startIndex, numBits uint32) uint64 {
	block := blockIndex(startIndex)
	if !b.inAllocatedRange(block) {
		panic("permute: bit index outside the allocated block range")
	}

	mask := (uint64(1) << numBits) - 1
	return (b.blocks()[block-uint32(b.blockStart)] >> bitInBlock(startIndex)) & mask
}

// GetBlockOrEmpty returns the stored block at the given absolute block
// index, or zero if the index is outside the allocated window.
func (b *BitSet) GetBlockOrEmpty(block uint32) uint64 {
	if !b.inAllocatedRange(block) {
		return 0
	}
	return b.blocks()[block-uint32(b.blockStart)]
}

// Clear zeroes all stored blocks and resets the window to empty. Capacity
// is retained for reuse.
func (b *BitSet) Clear() {
	data := b.blocks()
	for i := uint32(0); i < uint32(b.blockCount); i++ {
		data[i] = 0
	}

	b.blockCount = 0
	b.blockStart = 0
}

// Reserve resizes the block window to [newBlockStart, newBlockStart+newBlockCount),
// preserving existing bits at their absolute block indices. The window may
// only grow; when relocating, newBlockStart must not exceed the old start.
func (b *BitSet) Reserve(newBlockStart, newBlockCount uint32) {
	// the zero value holds one inline block, so capacity is never below one
	oldCapacity := max(uint32(b.blockCapacity), 1)

	if (b.blockCount == 0 || uint32(b.blockStart) == newBlockStart) && oldCapacity >= newBlockCount {
		b.blockStart = uint16(newBlockStart)
		b.blockCount = uint16(newBlockCount)
		return
	}

	newCapacity := oldCapacity
	if newBlockCount > oldCapacity {
		newCapacity += oldCapacity / 2

		const capacityAlignment = 4
		newCapacity = max(newBlockCount, newCapacity)
		newCapacity = (newCapacity + (capacityAlignment - 1)) &^ (capacityAlignment - 1)
		newCapacity = min(newCapacity, maxBlockCount)
	}

	oldData := b.blocks()
	b.blockCapacity = uint16(newCapacity)

	if newCapacity > 1 {
		newData := make([]uint64, newCapacity)
		if b.blockCount > 0 {
			if uint32(b.blockStart) < newBlockStart {
				panic("permute: Reserve may not move the window start past existing blocks")
			}
			copyOffset := uint32(b.blockStart) - newBlockStart
			copy(newData[copyOffset:], oldData[:b.blockCount])
		}
		b.external = newData
	} else {
		copy(b.inline[:], oldData[:b.blockCount])
		b.external = nil
	}

	b.blockCount = uint16(newBlockCount)
	b.blockStart = uint16(newBlockStart)
}

// ensureAllocatedRange grows the window so that the block containing
// startIndex is stored. The bit range must fit within one block.
func (b *BitSet) ensureAllocatedRange(startIndex, numBits uint32) {
	block := blockIndex(startIndex)
	if bitInBlock(startIndex)+numBits > BitsPerBlock {
		panic("permute: bit range crosses a block boundary")
	}

	if b.blockCount == 0 {
		b.Reserve(block, 1)
	} else if !b.inAllocatedRange(block) {
		newStart := min(block, uint32(b.blockStart))
		newEnd := max(block+1, b.BlockEnd())

		b.Reserve(newStart, newEnd-newStart)
	}
}

// CopyFrom replaces this set's logical content with other's. Storage is
// reused where the capacity allows.
func (b *BitSet) CopyFrom(other *BitSet) {
	oldCount := uint32(b.blockCount)
	newCount := uint32(other.blockCount)

	if newCount > oldCount {
		b.Clear()
		b.Reserve(uint32(other.blockStart), newCount)
		copy(b.blocks(), other.blocks()[:newCount])
	} else {
		data := b.blocks()
		copy(data, other.blocks()[:newCount])
		for i := newCount; i < oldCount; i++ {
			data[i] = 0
		}
	}

	b.blockCount = other.blockCount
	b.blockStart = other.blockStart
}

// Sum32 hashes the raw bytes of the stored blocks with the given hasher.
func (b *BitSet) Sum32(h Hasher) uint32 {
	data := b.blocks()[:b.blockCount]

	raw := make([]byte, len(data)*8)
	for i, blk := range data {
		binary.LittleEndian.PutUint64(raw[i*8:], blk)
	}

	return h(raw)
}
