package bp128

import (
	"errors"
	"fmt"
	"slices"
)

// Reader provides sequential and random access to one encoded stream.
// A Reader is not safe for concurrent use. Create multiple readers over
// the same buffer if concurrent access is needed.
type Reader struct {
	// values holds the unpacked values (decoded once on Load)
	values []uint32

	// pos is the current position for sequential iteration (0-based)
	pos int

	// count is the number of elements in the stream
	count int

	// sorted indicates the decoded values are monotonically non-decreasing
	sorted bool

	// loaded indicates if the reader has been loaded with data
	loaded bool
}

// ErrNotLoaded is returned when operations are called before Load().
var ErrNotLoaded = errors.New("bp128: reader not loaded")

// ErrPositionOutOfRange is returned when accessing a position beyond the stream.
var ErrPositionOutOfRange = errors.New("bp128: position out of range")

// NewReader creates an empty Reader that must be loaded with Load() before use.
func NewReader() *Reader {
	return &Reader{}
}

// Load decodes an Encode-produced stream into the reader. This resets all
// internal state and can be called repeatedly to reuse the reader and its
// decode buffer, which stays 16-byte aligned across reloads.
func (r *Reader) Load(stream []uint32) error {
	if len(stream) == 0 {
		return fmt.Errorf("%w: missing count word", ErrInvalidBuffer)
	}
	total := int(stream[0])
	if cap(r.values) >= total {
		// Reslicing keeps the base address, and with it the alignment.
		r.values = r.values[:total]
	} else {
		r.values = MakeAligned(total)
	}

	_, n, err := Decode(r.values, stream)
	if err != nil {
		return err
	}

	r.values = r.values[:n]
	r.count = n
	r.sorted = slices.IsSorted(r.values)
	r.pos = 0
	r.loaded = true
	return nil
}

// IsLoaded returns whether the reader has been loaded with data.
func (r *Reader) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of elements in the stream.
func (r *Reader) Len() int {
	return r.count
}

// Pos returns the current position for sequential iteration.
func (r *Reader) Pos() int {
	return r.pos
}

// Reset resets the reader position to the beginning for sequential iteration.
func (r *Reader) Reset() {
	r.pos = 0
}

// Get returns the value at the specified position.
// Returns an error if the reader is not loaded or pos is out of range.
func (r *Reader) Get(pos int) (uint32, error) {
	if !r.loaded {
		return 0, ErrNotLoaded
	}
	if pos < 0 || pos >= r.count {
		return 0, ErrPositionOutOfRange
	}
	return r.values[pos], nil
}

// Next returns the next value in sequence and its position.
// Returns (value, pos, true) on success, or (0, 0, false) if not loaded or
// no more elements remain.
func (r *Reader) Next() (value uint32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	value = r.values[r.pos]
	pos = r.pos
	r.pos++
	return value, pos, true
}

// SkipTo advances to and returns the first value >= req at or after the
// current position. Sorted streams are searched with binary search; anything
// else falls back to a linear scan, which finds the first occurrence in
// iteration order. Returns (0, 0, false) if not loaded or no such value
// exists.
func (r *Reader) SkipTo(req uint32) (value uint32, pos int, ok bool) {
	if !r.loaded || r.count == 0 {
		return 0, 0, false
	}
	if r.sorted {
		return r.skipToBinarySearch(req)
	}
	return r.skipToLinear(req)
}

// skipToBinarySearch searches from the current position to the end using
// slices.BinarySearch.
func (r *Reader) skipToBinarySearch(req uint32) (value uint32, pos int, ok bool) {
	idx, _ := slices.BinarySearch(r.values[r.pos:], req)
	absPos := r.pos + idx
	if absPos >= r.count {
		r.pos = r.count
		return 0, 0, false
	}
	r.pos = absPos + 1
	return r.values[absPos], absPos, true
}

func (r *Reader) skipToLinear(req uint32) (value uint32, pos int, ok bool) {
	for r.pos < r.count {
		v := r.values[r.pos]
		p := r.pos
		r.pos++
		if v >= req {
			return v, p, true
		}
	}
	return 0, 0, false
}

// Decode copies all decoded values into the provided destination slice.
// If dst has insufficient capacity, a new slice is allocated.
// Returns nil if the reader is not loaded.
func (r *Reader) Decode(dst []uint32) []uint32 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < r.count {
		dst = make([]uint32, r.count)
	} else {
		dst = dst[:r.count]
	}
	copy(dst, r.values)
	return dst
}

// IsSorted returns whether the decoded values are monotonically
// non-decreasing, in which case SkipTo uses binary search.
func (r *Reader) IsSorted() bool {
	return r.sorted
}
