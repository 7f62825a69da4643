package bp128

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeAllRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5, 127, 128, 129, 300, BlockSize, BlockSize + 37, 2*BlockSize + 500} {
		n := n
		t.Run(fmt.Sprintf("len_%04d", n), func(t *testing.T) {
			assertRoundTripAll(t, genRandom(n, int64(n), 1<<19-1))
		})
	}
}

func TestEncodeAllLargeTailValues(t *testing.T) {
	src := append(genSequential(MiniBlockSize), ^uint32(0), 0, 1234567890)
	assertRoundTripAll(t, src)
}

func TestEncodeAllShortDestination(t *testing.T) {
	assert := assert.New(t)
	src := genSequential(MiniBlockSize + 9)
	dst := make([]uint32, MaxEncodedLenAll(len(src))-1)
	_, err := EncodeAll(dst, src)
	assert.ErrorIs(err, ErrShortBuffer)
}

func TestDecodeAllMissingTailCount(t *testing.T) {
	assert := assert.New(t)
	src := genSequential(MiniBlockSize)
	stream := encodeAllAligned(t, src)

	// Drop the tail count word: the prefix still decodes, the tail framing fails.
	_, _, err := DecodeAll(MakeAligned(len(src)), stream[:len(stream)-1])
	assert.ErrorIs(err, ErrInvalidBuffer)
}

func TestDecodeAllTruncatedTailData(t *testing.T) {
	assert := assert.New(t)
	src := genSequential(MiniBlockSize + 40)
	stream := encodeAllAligned(t, src)
	_, _, err := DecodeAll(MakeAligned(len(src)), stream[:len(stream)-1])
	assert.ErrorIs(err, ErrInvalidBuffer)
}

func TestDecodeAllMisalignedOutput(t *testing.T) {
	assert := assert.New(t)
	src := genSequential(MiniBlockSize + 3)
	stream := encodeAllAligned(t, src)
	_, _, err := DecodeAll(MakeAligned(len(src)+1)[1:], stream)
	assert.ErrorIs(err, ErrBadAlignment)
}

func TestDecodeAllChainedStreams(t *testing.T) {
	assert := assert.New(t)
	first := genRandom(MiniBlockSize+77, 8, 1<<23-1)
	second := genMonotonic(31)

	buf := MakeAligned(MaxEncodedLenAll(len(first)) + MaxEncodedLenAll(len(second)))
	n1, err := EncodeAll(buf, first)
	assert.NoError(err)
	n2, err := EncodeAll(buf[n1:], second)
	assert.NoError(err)

	out := MakeAligned(len(first))
	read, n, err := DecodeAll(out, buf[:n1+n2])
	assert.NoError(err)
	assert.Equal(n1, read)
	assert.Equal(first, out[:n])

	out2 := MakeAligned(len(second))
	read2, m, err := DecodeAll(out2, buf[read:n1+n2])
	assert.NoError(err)
	assert.Equal(n2, read2)
	assert.Equal(second, out2[:m])
}

func encodeAllAligned(t *testing.T, src []uint32) []uint32 {
	t.Helper()
	dst := MakeAligned(MaxEncodedLenAll(len(src)))
	n, err := EncodeAll(dst, src)
	assert.NoError(t, err)
	return dst[:n]
}

func assertRoundTripAll(t *testing.T, src []uint32) {
	t.Helper()
	stream := encodeAllAligned(t, src)
	out := MakeAligned(len(src))
	read, n, err := DecodeAll(out, stream)
	assert.NoError(t, err)
	assert.Equal(t, len(stream), read, "decode should consume the whole stream")
	assert.Equal(t, len(src), n, "element count mismatch")
	if len(src) > 0 {
		assert.Equal(t, src, out[:n], "round trip mismatch")
	}
}
