// Package bp128 implements the SIMD-BP128 binary packing codec for unsigned
// 32-bit integers.
//
// The codec partitions the input into blocks of 2048 integers, each made of
// 16 miniblocks of 128. Every miniblock is bit-packed at the smallest width
// that holds its largest value, and each block carries a 4-word table of its
// 16 widths. The stream opens with the element count followed by cookie
// filler words that push the first data word onto a 16-byte boundary, so the
// packed payload keeps the alignment vector kernels expect regardless of
// where the caller's buffer starts. Callers provide the destination slices
// to Encode/Decode so higher-level codecs can reuse buffers without repeated
// heap allocations. The package maintains no global mutable state.
//
// Scheme designed by D. Lemire with ideas from L. Boytsov, "Decoding
// billions of integers per second through vectorization",
// http://arxiv.org/abs/1209.2137
package bp128

import (
	"errors"
	"fmt"
)

// Block configuration constants. Encode/Decode always operate on whole
// miniblocks; the input length must be a multiple of MiniBlockSize.
const (
	// MiniBlockSize is the number of consecutive integers sharing one bit width.
	MiniBlockSize = 128
	// miniBlocksPerBlock is the number of miniblocks whose widths share one table.
	miniBlocksPerBlock = 16
	// BlockSize is the number of integers covered by one width table.
	BlockSize = MiniBlockSize * miniBlocksPerBlock

	// CookiePadder is the filler word written after the count header until
	// the next output word lands on a 16-byte boundary. Decode validates
	// every filler word against it.
	CookiePadder = 123456

	// widthTableWords is the serialized size of one 16-entry width table:
	// four widths per word, one byte each.
	widthTableWords = miniBlocksPerBlock / 4

	wordBytes = 4
	// paddingWordsMax bounds the cookie run after the count word.
	paddingWordsMax = alignmentBytes/wordBytes - 1
)

var (
	// ErrInvalidLength is returned when the input length is not a multiple
	// of the miniblock size.
	ErrInvalidLength = errors.New("bp128: input length not a multiple of the miniblock size")

	// ErrShortBuffer is returned when a destination slice cannot hold the result.
	ErrShortBuffer = errors.New("bp128: destination buffer too small")

	// ErrBadAlignment is returned by Decode when the destination's base
	// address is not on a 16-byte boundary.
	ErrBadAlignment = errors.New("bp128: bad initial output align")

	// ErrCorruptStream is returned when a filler word does not match
	// CookiePadder, either because the stream is non-conforming or because
	// it was moved to a base with a different alignment than it was
	// encoded at.
	ErrCorruptStream = errors.New("bp128: stream corrupt")

	// ErrInvalidBuffer is returned when an encoded buffer is too small or
	// otherwise malformed.
	ErrInvalidBuffer = errors.New("bp128: invalid buffer")
)

// MaxEncodedLen returns the worst-case number of words Encode may write for
// n input integers: the count word, up to three cookie words, one width
// table per started block, and the payload at the full 32-bit width.
func MaxEncodedLen(n int) int {
	blocks := (n + BlockSize - 1) / BlockSize
	return 1 + paddingWordsMax + blocks*widthTableWords + n
}

// Encode compresses src into dst and returns the number of words written.
//
// len(src) must be a multiple of MiniBlockSize and len(dst) must be at least
// MaxEncodedLen(len(src)); both are checked before anything is written. The
// number of cookie words depends only on the base address of dst, so
// encoding the same input at the same base alignment is byte-identical. If
// the stream is later moved, the move must preserve 16-byte alignment.
func Encode(dst, src []uint32) (int, error) {
	if len(src)%MiniBlockSize != 0 {
		return 0, fmt.Errorf("%w: got %d values", ErrInvalidLength, len(src))
	}
	if need := MaxEncodedLen(len(src)); len(dst) < need {
		return 0, fmt.Errorf("%w: need %d words, got %d", ErrShortBuffer, need, len(dst))
	}

	out := 0
	dst[out] = uint32(len(src))
	out++
	for !wordAligned(dst, out) {
		dst[out] = CookiePadder
		out++
	}

	var widths [miniBlocksPerBlock]uint8
	in := 0
	for len(src)-in >= BlockSize {
		for i := range widths {
			widths[i] = uint8(maxBits(src[in+i*MiniBlockSize : in+(i+1)*MiniBlockSize]))
		}
		out += packWidthTable(dst[out:], &widths)
		for i := range widths {
			out += packMiniBlock(dst[out:], src[in+i*MiniBlockSize:in+(i+1)*MiniBlockSize], int(widths[i]))
		}
		in += BlockSize
	}

	if in < len(src) {
		// Ragged trailing block: absent slots keep width 0 in the table and
		// contribute no payload words.
		howMany := (len(src) - in) / MiniBlockSize
		widths = [miniBlocksPerBlock]uint8{}
		for i := 0; i < howMany; i++ {
			widths[i] = uint8(maxBits(src[in+i*MiniBlockSize : in+(i+1)*MiniBlockSize]))
		}
		out += packWidthTable(dst[out:], &widths)
		for i := 0; i < howMany; i++ {
			out += packMiniBlock(dst[out:], src[in+i*MiniBlockSize:in+(i+1)*MiniBlockSize], int(widths[i]))
		}
	}

	return out, nil
}

// Decode reconstructs the integers compressed by Encode, writing them to
// dst. It returns the number of input words consumed and the number of
// integers produced, so callers can continue parsing subsequent chunks from
// the same buffer.
//
// The base of dst must lie on a 16-byte boundary (see MakeAligned);
// violating that fails with ErrBadAlignment before anything is written.
// Filler words are validated against CookiePadder, which catches streams
// that were re-based without preserving alignment.
func Decode(dst, src []uint32) (wordsRead, n int, err error) {
	if len(src) == 0 {
		return 0, 0, fmt.Errorf("%w: missing count word", ErrInvalidBuffer)
	}
	if !wordAligned(dst, 0) {
		return 0, 0, ErrBadAlignment
	}

	in := 0
	total := int(src[in])
	in++
	for !wordAligned(src, in) {
		if in == len(src) {
			return in, 0, fmt.Errorf("%w: buffer truncated inside alignment padding", ErrInvalidBuffer)
		}
		if src[in] != CookiePadder {
			return in, 0, fmt.Errorf("%w: expected padding cookie at word %d, got %d", ErrCorruptStream, in, src[in])
		}
		in++
	}
	if total%MiniBlockSize != 0 {
		return in, 0, fmt.Errorf("%w: count %d not a multiple of the miniblock size", ErrCorruptStream, total)
	}
	if len(dst) < total {
		return in, 0, fmt.Errorf("%w: destination holds %d values, stream carries %d", ErrShortBuffer, len(dst), total)
	}

	var widths [miniBlocksPerBlock]uint8
	out := 0
	for out < total/BlockSize*BlockSize {
		if len(src)-in < widthTableWords {
			return in, out, errTruncated(widthTableWords, len(src)-in)
		}
		unpackWidthTable(src[in:], &widths)
		in += widthTableWords
		for i := range widths {
			width := int(widths[i])
			if need := miniBlockWords(width); len(src)-in < need {
				return in, out, errTruncated(need, len(src)-in)
			}
			in += unpackMiniBlock(dst[out:out+MiniBlockSize], src[in:], width)
			out += MiniBlockSize
		}
	}

	if out < total {
		// Trailing block: unused table slots decode as width 0 and are not
		// visited, mirroring the encoder's skip.
		howMany := (total - out) / MiniBlockSize
		if len(src)-in < widthTableWords {
			return in, out, errTruncated(widthTableWords, len(src)-in)
		}
		unpackWidthTable(src[in:], &widths)
		in += widthTableWords
		for i := 0; i < howMany; i++ {
			width := int(widths[i])
			if need := miniBlockWords(width); len(src)-in < need {
				return in, out, errTruncated(need, len(src)-in)
			}
			in += unpackMiniBlock(dst[out:out+MiniBlockSize], src[in:], width)
			out += MiniBlockSize
		}
	}

	return in, out, nil
}

func errTruncated(need, got int) error {
	return fmt.Errorf("%w: buffer truncated (need %d words, got %d)", ErrInvalidBuffer, need, got)
}
