package hamt

import "math/bits"

// slotIndex extracts the 5-bit slot index for level from a 32-bit
// hash. level is the shift in bits: 0, 5, 10, ..., 30.
func slotIndex(h uint32, level uint) uint {
	return uint(h>>level) & (uint(TableCapacity) - 1)
}

// slot codes, 2 bits per slot.
const (
	slotEmpty  = uint64(0)
	slotBranch = uint64(1)
	slotInline = uint64(3) // 0b11
)

// slotCode returns the 2-bit code stored for slot in bitmap.
func slotCode(bitmap uint64, slot uint) uint64 {
	return (bitmap >> (2 * slot)) & 3
}

// withSlotCode returns bitmap with slot's 2-bit code replaced by code.
func withSlotCode(bitmap uint64, slot uint, code uint64) uint64 {
	shift := 2 * slot
	return (bitmap &^ (uint64(3) << shift)) | (code << shift)
}

// oddBits is a mask selecting the low bit of every 2-bit pair, used
// to separate the "branch" (01) and "inline" (11) populations of a
// bitmap from each other.
const oddBits = uint64(0x5555555555555555)

// below splits the bits of bitmap strictly below the given slot into
// the number of occupied branch slots and the number of occupied
// inline slots among them. Used to find a slot's position within its
// node's packed branches/pairs arrays: the position of slot's own
// cell equals the count of same-kind occupied slots below it.
func below(bitmap uint64, slot uint) (branches, inlines int) {
	low := bitmap & ((uint64(1) << (2 * slot)) - 1)
	loBit := low & oddBits
	hiBit := (low >> 1) & oddBits
	branchMask := loBit &^ hiBit
	inlineMask := loBit & hiBit
	return bits.OnesCount64(branchMask), bits.OnesCount64(inlineMask)
}

// popcountAll returns the total branch and inline slot counts for the
// entire bitmap.
func popcountAll(bitmap uint64) (branches, inlines int) {
	loBit := bitmap & oddBits
	hiBit := (bitmap >> 1) & oddBits
	branchMask := loBit &^ hiBit
	inlineMask := loBit & hiBit
	return bits.OnesCount64(branchMask), bits.OnesCount64(inlineMask)
}
