package bp128

import (
	"encoding/binary"
	"fmt"

	"github.com/mhr3/streamvbyte"
)

var bo = binary.LittleEndian

// EncodeAll compresses values of arbitrary length into dst and returns the
// number of words written. The longest prefix whose length is a multiple of
// MiniBlockSize goes through Encode; the remaining 0–127 values are appended
// as a StreamVByte tail. The tail layout after the bit-packed prefix is:
//
//	word 0:  tail value count (0–127, always present)
//	word 1:  StreamVByte byte length (only if the count is nonzero)
//	words 2…: StreamVByte bytes, little-endian within each word
//
// len(dst) must be at least MaxEncodedLenAll(len(values)).
func EncodeAll(dst, values []uint32) (int, error) {
	if need := MaxEncodedLenAll(len(values)); len(dst) < need {
		return 0, fmt.Errorf("%w: need %d words, got %d", ErrShortBuffer, need, len(dst))
	}

	head := len(values) / MiniBlockSize * MiniBlockSize
	out, err := Encode(dst, values[:head])
	if err != nil {
		return 0, err
	}

	tail := values[head:]
	dst[out] = uint32(len(tail))
	out++
	if len(tail) == 0 {
		return out, nil
	}

	svb := streamvbyte.EncodeUint32(tail, &streamvbyte.EncodeOptions[uint32]{
		Buffer: make([]byte, streamvbyte.MaxEncodedLen(len(tail))),
	})
	dst[out] = uint32(len(svb))
	out++
	for len(svb) > 0 {
		var word [wordBytes]byte
		n := copy(word[:], svb)
		dst[out] = bo.Uint32(word[:])
		out++
		svb = svb[n:]
	}
	return out, nil
}

// DecodeAll reconstructs a stream produced by EncodeAll, writing the values
// to dst. Like Decode it returns the advanced read cursor together with the
// number of values produced, and requires dst's base to be 16-byte aligned.
func DecodeAll(dst, src []uint32) (wordsRead, n int, err error) {
	in, out, err := Decode(dst, src)
	if err != nil {
		return in, out, err
	}
	if in == len(src) {
		return in, out, fmt.Errorf("%w: missing tail count word", ErrInvalidBuffer)
	}
	tailCount := int(src[in])
	in++
	if tailCount == 0 {
		return in, out, nil
	}
	if tailCount >= MiniBlockSize {
		return in, out, fmt.Errorf("%w: tail count %d not below the miniblock size", ErrCorruptStream, tailCount)
	}
	if len(dst)-out < tailCount {
		return in, out, fmt.Errorf("%w: destination holds %d values, stream carries %d", ErrShortBuffer, len(dst), out+tailCount)
	}
	if in == len(src) {
		return in, out, fmt.Errorf("%w: missing tail byte length word", ErrInvalidBuffer)
	}
	svbLen := int(src[in])
	in++

	svbWords := (svbLen + wordBytes - 1) / wordBytes
	if len(src)-in < svbWords {
		return in, out, errTruncated(svbWords, len(src)-in)
	}
	buf := make([]byte, svbWords*wordBytes)
	for k := 0; k < svbWords; k++ {
		bo.PutUint32(buf[k*wordBytes:], src[in+k])
	}
	in += svbWords

	streamvbyte.DecodeUint32(buf[:svbLen], tailCount, &streamvbyte.DecodeOptions[uint32]{
		Buffer: dst[out : out+tailCount],
	})
	out += tailCount
	return in, out, nil
}

// MaxEncodedLenAll returns the worst-case number of words EncodeAll may
// write for n input integers.
func MaxEncodedLenAll(n int) int {
	head := n / MiniBlockSize * MiniBlockSize
	words := MaxEncodedLen(head) + 1
	if tail := n - head; tail > 0 {
		words += 1 + (streamvbyte.MaxEncodedLen(tail)+wordBytes-1)/wordBytes
	}
	return words
}
