package bp128

import "unsafe"

// alignmentBytes is the boundary the vector pack kernels require of packed
// data and of Decode's destination.
const alignmentBytes = 16

// IsAligned reports whether the first element of buf lies on a 16-byte
// boundary. Decode requires this of its destination; MakeAligned produces
// slices that satisfy it.
func IsAligned(buf []uint32) bool {
	return wordAligned(buf, 0)
}

// wordAligned reports whether the idx'th word of buf sits on a 16-byte
// boundary. idx may equal len(buf); only the address is computed, nothing
// is dereferenced.
func wordAligned(buf []uint32, idx int) bool {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	return (base+uintptr(idx)*wordBytes)&(alignmentBytes-1) == 0
}

// MakeAligned returns a zeroed slice of n words whose first element lies on
// a 16-byte boundary. The Go allocator only guarantees word alignment, so
// the slice is carved out of a slightly larger allocation.
func MakeAligned(n int) []uint32 {
	storage := make([]uint32, n+alignmentBytes/wordBytes)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(storage)))
	offset := int(align16(base)-base) / wordBytes
	return storage[offset : offset+n]
}

func align16(ptr uintptr) uintptr {
	const mask = alignmentBytes - 1
	return (ptr + mask) &^ mask
}
