package bp128

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxBits(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, maxBits([]uint32{0, 0, 0}))
	assert.Equal(1, maxBits([]uint32{0, 1, 0}))
	assert.Equal(7, maxBits([]uint32{127}))
	assert.Equal(8, maxBits([]uint32{128}))
	assert.Equal(8, maxBits([]uint32{3, 200, 17}))
	assert.Equal(32, maxBits([]uint32{5, ^uint32(0)}))
}

func TestMaxBitsIsExact(t *testing.T) {
	assert := assert.New(t)
	for width := 1; width <= 32; width++ {
		top := uint32(1) << (width - 1)
		assert.Equal(width, maxBits([]uint32{top}), "width %d lower bound", width)
		assert.Equal(width, maxBits([]uint32{top | (top - 1)}), "width %d upper bound", width)
	}
}

func TestWidthTableRoundTrip(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(17))
	for trial := 0; trial < 32; trial++ {
		var widths, got [miniBlocksPerBlock]uint8
		for i := range widths {
			widths[i] = uint8(rng.Intn(33))
		}
		var words [widthTableWords]uint32
		n := packWidthTable(words[:], &widths)
		assert.Equal(widthTableWords, n)
		unpackWidthTable(words[:], &got)
		assert.Equal(widths, got, "width table round trip mismatch")
	}
}

func TestWidthTableByteOrder(t *testing.T) {
	assert := assert.New(t)
	widths := [miniBlocksPerBlock]uint8{7, 1, 2, 3, 4}
	var words [widthTableWords]uint32
	packWidthTable(words[:], &widths)

	// First miniblock in the high byte, fourth in the low byte.
	assert.Equal(uint32(7)<<24|uint32(1)<<16|uint32(2)<<8|uint32(3), words[0])
	assert.Equal(uint32(4)<<24, words[1])
	assert.Equal(uint32(0), words[2])
	assert.Equal(uint32(0), words[3])
}
