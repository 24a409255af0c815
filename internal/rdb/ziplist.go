package rdb

import (
	"encoding/binary"
	"strconv"
)

// zipListHeaderSize is the 4+4+2 byte zlbytes/zltail/zllen prefix (spec §4.7).
const zipListHeaderSize = 10

// ziplistUnknownCount is the sentinel element count meaning "scan to find out".
const ziplistUnknownCount = 0xFFFF

// ZipList is a lazy, forward-only view over an embedded ziplist blob (spec
// §4.7). It never mutates the backing slice; constructing a fresh view
// over the same blob and iterating again yields an identical sequence
// (spec §8 property 6).
type ZipList struct {
	blob   []byte
	offset int
	done   bool
}

// NewZipList wraps an owned ziplist blob. The blob is not copied; callers
// must not mutate it while iterating.
func NewZipList(blob []byte) *ZipList {
	return &ZipList{blob: blob, offset: zipListHeaderSize}
}

// Next implements ContainerView.
func (z *ZipList) Next() ([]byte, bool, error) {
	if z.done {
		return nil, false, nil
	}
	if z.offset >= len(z.blob) {
		return nil, false, newErr(MalformedZipList, "ziplist ended without 0xFF marker", nil)
	}
	if z.blob[z.offset] == 0xFF {
		z.done = true
		return nil, false, nil
	}

	elem, n, err := readZipListEntry(z.blob[z.offset:])
	if err != nil {
		return nil, false, err
	}
	z.offset += n
	return elem, true, nil
}

// readZipListEntry decodes one entry (prev-len, then tagged encoding byte,
// then payload) and returns the element plus the number of bytes consumed.
func readZipListEntry(data []byte) ([]byte, int, error) {
	if len(data) < 1 {
		return nil, 0, newErr(MalformedZipList, "truncated ziplist entry", nil)
	}

	offset := 0
	// prev-len: the view only needs to skip it, never uses the value.
	if data[offset] < 254 {
		offset++
	} else {
		offset += 5
	}
	if offset >= len(data) {
		return nil, 0, newErr(MalformedZipList, "truncated ziplist entry", nil)
	}

	encoding := data[offset]
	offset++

	switch {
	case encoding&0xC0 == 0x00:
		length := int(encoding & 0x3F)
		if offset+length > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated 6-bit string entry", nil)
		}
		return data[offset : offset+length], offset + length, nil

	case encoding&0xC0 == 0x40:
		if offset >= len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated 14-bit string length", nil)
		}
		length := int(encoding&0x3F)<<8 | int(data[offset])
		offset++
		if offset+length > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated 14-bit string entry", nil)
		}
		return data[offset : offset+length], offset + length, nil

	case encoding&0xC0 == 0x80:
		// |10______| then 4 bytes big-endian length (the low 6 bits of
		// the encoding byte itself are unused in this variant).
		if offset+4 > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated 32-bit string length", nil)
		}
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
		if offset+length > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated 32-bit string entry", nil)
		}
		return data[offset : offset+length], offset + length, nil

	case encoding == 0xC0:
		if offset+2 > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated int16 entry", nil)
		}
		v := int16(binary.LittleEndian.Uint16(data[offset : offset+2]))
		return []byte(strconv.Itoa(int(v))), offset + 2, nil

	case encoding == 0xD0:
		if offset+4 > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated int32 entry", nil)
		}
		v := int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
		return []byte(strconv.Itoa(int(v))), offset + 4, nil

	case encoding == 0xE0:
		if offset+8 > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated int64 entry", nil)
		}
		v := int64(binary.LittleEndian.Uint64(data[offset : offset+8]))
		return []byte(strconv.FormatInt(v, 10)), offset + 8, nil

	case encoding == 0xFE:
		if offset+1 > len(data) {
			return nil, 0, newErr(MalformedZipList, "truncated int8 entry", nil)
		}
		v := int8(data[offset])
		return []byte(strconv.Itoa(int(v))), offset + 1, nil

	case encoding&0xF0 == 0xF0:
		// 4-bit immediate integer 0..12 in (E & 0x0F) - 1. 0xFF is the
		// end marker and handled by the caller, and 0xFE is matched above,
		// so this branch sees 0xF0..0xFD (0xF0 yields -1).
		v := int(encoding&0x0F) - 1
		return []byte(strconv.Itoa(v)), offset, nil

	default:
		return nil, 0, newErr(MalformedZipList, "unrecognized ziplist encoding byte", nil)
	}
}
