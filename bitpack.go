package bp128

// The payload layout matches the SIMD-BP128 kernels: a miniblock is split
// into four pseudo-lanes (value indices lane, lane+4, lane+8, …), each lane
// bit-packed through its own accumulator, with the lanes' output words
// interleaved in groups of four so that every consecutive 16-byte chunk
// holds one word from each lane.

const (
	// laneCount splits miniblocks into four pseudo-lanes matching the
	// 128-bit vector layout.
	laneCount = 4
	// laneLength is the number of integers stored per lane.
	laneLength = MiniBlockSize / laneCount

	// mathMaxUint32 is the maximum uint32, used while constructing bit
	// masks without conversions.
	mathMaxUint32 = ^uint32(0)
)

// miniBlockWords returns the number of payload words a miniblock occupies
// at the given bit width: 128 values × width bits / 32 bits per word.
func miniBlockWords(width int) int {
	return width * MiniBlockSize / 32
}

// packMiniBlock packs exactly MiniBlockSize values into dst at a uniform
// bit width and returns the number of words written (4×width; width 0
// writes nothing). Held in a variable so an accelerated kernel can be
// swapped in.
var packMiniBlock func(dst, values []uint32, width int) int = packMiniBlockScalar

// unpackMiniBlock performs the inverse of packMiniBlock, reconstructing
// MiniBlockSize values from src and returning the number of words consumed.
var unpackMiniBlock func(dst, src []uint32, width int) int = unpackMiniBlockScalar

func packMiniBlockScalar(dst, values []uint32, width int) int {
	if width == 0 {
		return 0
	}
	for lane := 0; lane < laneCount; lane++ {
		packLaneInterleaved(dst, values, lane, width)
	}
	return miniBlockWords(width)
}

// packLaneInterleaved packs the 32 integers of a single lane through a
// streaming 64-bit accumulator. Output words land at indices lane, lane+4,
// lane+8, … so the four lanes interleave.
func packLaneInterleaved(dst, values []uint32, lane, width int) {
	var mask uint64
	if width >= 32 {
		mask = uint64(mathMaxUint32)
	} else {
		mask = uint64(1)<<width - 1
	}

	var acc uint64
	var bitsInAcc int
	w := lane
	for i := 0; i < laneLength; i++ {
		acc |= (uint64(values[lane+i*laneCount]) & mask) << bitsInAcc
		bitsInAcc += width
		for bitsInAcc >= 32 {
			dst[w] = uint32(acc)
			w += laneCount
			acc >>= 32
			bitsInAcc -= 32
		}
	}
	if bitsInAcc > 0 {
		dst[w] = uint32(acc)
	}
}

func unpackMiniBlockScalar(dst, src []uint32, width int) int {
	if width == 0 {
		clear(dst[:MiniBlockSize])
		return 0
	}
	for lane := 0; lane < laneCount; lane++ {
		unpackLaneInterleaved(dst, src, lane, width)
	}
	return miniBlockWords(width)
}

// unpackLaneInterleaved reconstructs the integers of a single lane, reading
// words from indices lane, lane+4, lane+8, … of the interleaved payload.
func unpackLaneInterleaved(dst, src []uint32, lane, width int) {
	var mask uint32
	if width >= 32 {
		mask = mathMaxUint32
	} else {
		mask = 1<<width - 1
	}

	var acc uint64
	var bitsInAcc int
	r := lane
	for i := 0; i < laneLength; i++ {
		for bitsInAcc < width {
			acc |= uint64(src[r]) << bitsInAcc
			r += laneCount
			bitsInAcc += 32
		}
		dst[lane+i*laneCount] = uint32(acc) & mask
		acc >>= width
		bitsInAcc -= width
	}
}
