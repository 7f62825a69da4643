package bp128

import "math/bits"

// maxBits returns the minimum number of bits needed to represent every
// value in the slice. Uses OR-reduction to avoid per-element branching.
// A result of 0 means the values are all zero and pack to no payload.
func maxBits(values []uint32) int {
	var orAll uint32
	for _, v := range values {
		orAll |= v
	}
	return bits.Len32(orAll)
}

// The 16 per-miniblock widths travel as 4 words, four widths per word, with
// the earliest miniblock in the highest byte:
//
//	word k = widths[4k]<<24 | widths[4k+1]<<16 | widths[4k+2]<<8 | widths[4k+3]

// packWidthTable serializes the width table into dst[:widthTableWords] and
// returns the number of words written.
func packWidthTable(dst []uint32, widths *[miniBlocksPerBlock]uint8) int {
	for k := 0; k < widthTableWords; k++ {
		dst[k] = uint32(widths[4*k])<<24 | uint32(widths[4*k+1])<<16 |
			uint32(widths[4*k+2])<<8 | uint32(widths[4*k+3])
	}
	return widthTableWords
}

// unpackWidthTable reads the width table back from src[:widthTableWords].
// It is the exact inverse of packWidthTable.
func unpackWidthTable(src []uint32, widths *[miniBlocksPerBlock]uint8) {
	for k := 0; k < widthTableWords; k++ {
		w := src[k]
		widths[4*k] = uint8(w >> 24)
		widths[4*k+1] = uint8(w >> 16)
		widths[4*k+2] = uint8(w >> 8)
		widths[4*k+3] = uint8(w)
	}
}
