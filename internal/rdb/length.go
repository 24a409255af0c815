package rdb

import (
	"encoding/binary"
	"math"
)

// lengthResult carries a decoded length prefix plus whether the flag bits
// actually denoted a "special string" marker (flag 11) rather than a length.
type lengthResult struct {
	value   uint64
	special bool // true: the low 6 bits are a special-string subtype, not a length
}

// readLengthOrSpecial implements spec §4.2. It inspects the top two bits
// of the first byte ("the flag") and dispatches:
//
//	00  length = lower 6 bits
//	01  length = (lower 6 bits << 8) | next byte          (14-bit, big-endian)
//	10  length = next 4 bytes, unsigned big-endian 32-bit
//	11  not a length at all; lower 6 bits select a special encoding
//
// No range check happens here: the two distinct overflow rules in spec §4.3
// (string length) and §7 (collection element count) apply at the call site,
// since the same raw 32-bit path feeds both and the ceiling differs.
func (p *Parser) readLengthOrSpecial() (lengthResult, error) {
	first, err := p.cur.readOne()
	if err != nil {
		return lengthResult{}, err
	}

	switch flag := first >> 6; flag {
	case 0:
		return lengthResult{value: uint64(first & 0x3F)}, nil

	case 1:
		next, err := p.cur.readOne()
		if err != nil {
			return lengthResult{}, err
		}
		length := (uint64(first&0x3F) << 8) | uint64(next)
		return lengthResult{value: length}, nil

	case 2:
		buf, err := p.cur.readExact(4)
		if err != nil {
			return lengthResult{}, err
		}
		return lengthResult{value: uint64(binary.BigEndian.Uint32(buf))}, nil

	default: // flag == 3
		return lengthResult{value: uint64(first & 0x3F), special: true}, nil
	}
}

// readLength requires a plain length; a special-string flag here is fatal.
// Used for db-select indices and the element counts of LIST/SET/SORTED_SET/
// HASH, none of which carry the string-specific high-bit-set restriction.
func (p *Parser) readLength() (uint64, error) {
	res, err := p.readLengthOrSpecial()
	if err != nil {
		return 0, err
	}
	if res.special {
		return 0, newErr(UnexpectedSpecialEncoding, "length required but special-string flag seen", nil)
	}
	return res.value, nil
}

// maxSigned32 is the signed 32-bit index ceiling collection counts are
// checked against (spec §7, OversizedCollection).
const maxSigned32 = math.MaxInt32

// checkCollectionCount enforces the OversizedCollection ceiling. pairValued
// types (SORTED_SET, HASH) count pairs that are flattened into twice as many
// items, so their ceiling is lowered to 2^30 (spec §4.6 table: L ≤ 2^30 for
// those two, L ≤ 2^31-1 for LIST/SET).
func checkCollectionCount(count uint64, pairValued bool) error {
	ceiling := uint64(maxSigned32)
	if pairValued {
		ceiling = 1 << 30
	}
	if count > ceiling {
		return newErr(OversizedCollection, "declared element count exceeds ceiling", nil)
	}
	return nil
}
