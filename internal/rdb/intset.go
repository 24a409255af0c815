package rdb

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// intSetHeaderSize is the 4+4 byte [width][count] prefix (spec §4.8).
const intSetHeaderSize = 8

// IntSet is a lazy, forward-only view over an embedded intset blob.
type IntSet struct {
	blob   []byte
	width  int
	count  int
	offset int
	index  int
}

// NewIntSet parses the header and returns a view ready to iterate. The
// header is validated eagerly (width must be 2, 4, or 8) since a bad
// header can't be discovered lazily without risking an out-of-bounds read.
func NewIntSet(blob []byte) (*IntSet, error) {
	if len(blob) < intSetHeaderSize {
		return nil, newErr(MalformedZipList, "intset payload shorter than header", nil)
	}
	width := int(binary.LittleEndian.Uint32(blob[0:4]))
	count := int(binary.LittleEndian.Uint32(blob[4:8]))
	if width != 2 && width != 4 && width != 8 {
		return nil, newErr(MalformedZipList, fmt.Sprintf("intset element width must be 2, 4, or 8, got %d", width), nil)
	}
	return &IntSet{blob: blob, width: width, count: count, offset: intSetHeaderSize}, nil
}

// Next implements ContainerView, yielding ASCII decimal representations in
// stored order.
func (s *IntSet) Next() ([]byte, bool, error) {
	if s.index >= s.count {
		return nil, false, nil
	}
	end := s.offset + s.width
	if end > len(s.blob) {
		return nil, false, newErr(MalformedZipList, "intset payload truncated", nil)
	}
	raw := s.blob[s.offset:end]

	var v int64
	switch s.width {
	case 2:
		v = int64(int16(binary.LittleEndian.Uint16(raw)))
	case 4:
		v = int64(int32(binary.LittleEndian.Uint32(raw)))
	case 8:
		v = int64(binary.LittleEndian.Uint64(raw))
	}

	s.offset = end
	s.index++
	return []byte(strconv.FormatInt(v, 10)), true, nil
}
