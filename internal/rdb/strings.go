package rdb

import (
	"encoding/binary"
	"strconv"
)

// Special-string subtypes (flag 11, low 6 bits), spec §4.3.
const (
	encInt8  = 0
	encInt16 = 1
	encInt32 = 2
	encLZF   = 3
)

// readStringEncoded implements spec §4.3: a length-prefixed raw string for
// flags 00/01/10, or one of four special encodings for flag 11.
func (p *Parser) readStringEncoded() ([]byte, error) {
	res, err := p.readLengthOrSpecial()
	if err != nil {
		return nil, err
	}

	if !res.special {
		if res.value&0x80000000 != 0 {
			// Only the 32-bit big-endian path can produce a value this
			// large; smaller flags max out at 14 bits.
			return nil, newErr(OversizedString, "declared string length has sign bit set", nil)
		}
		return p.cur.readExact(int(res.value))
	}

	switch res.value {
	case encInt8:
		b, err := p.cur.readOne()
		if err != nil {
			return nil, err
		}
		// Deliberately unsigned: the source system's int8 special
		// encoding reinterprets the byte as 0..255, not -128..127.
		return []byte(strconv.Itoa(int(b))), nil

	case encInt16:
		buf, err := p.cur.readExact(2)
		if err != nil {
			return nil, err
		}
		v := binary.LittleEndian.Uint16(buf)
		return []byte(strconv.Itoa(int(v))), nil

	case encInt32:
		buf, err := p.cur.readExact(4)
		if err != nil {
			return nil, err
		}
		// Signed, little-endian: negative values must round-trip.
		v := int32(binary.LittleEndian.Uint32(buf))
		return []byte(strconv.Itoa(int(v))), nil

	case encLZF:
		return p.readLZFString()

	default:
		return nil, newErr(UnknownSpecialEncoding, "string-encoding subtype outside 0..3", nil)
	}
}

// readLZFString implements the [clen][ulen][payload] shape of spec §4.4,
// decompressing with the same golzf path the teacher uses for its own
// RDB_ENC_LZF case.
func (p *Parser) readLZFString() ([]byte, error) {
	compressedLen, err := p.readLength()
	if err != nil {
		return nil, err
	}
	originalLen, err := p.readLength()
	if err != nil {
		return nil, err
	}

	compressed, err := p.cur.readExact(int(compressedLen))
	if err != nil {
		return nil, err
	}

	return Expand(compressed, int(originalLen))
}
