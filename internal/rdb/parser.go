package rdb

import (
	"io"
	"strconv"
)

// Parser streams and decodes a snapshot byte source into Entry values
// (spec §3/§4.6). A Parser instance is single-use and single-threaded: it
// owns exclusive access to its ByteSource for its lifetime and advances an
// internal cursor on every NextEntry call.
type Parser struct {
	cur   *byteCursor
	state parserState

	Version int // parsed from the 4-digit header once streaming begins

	Stats Stats

	// poisoned latches the first error: once set, every subsequent
	// NextEntry call returns it unchanged (spec §7: "implementers may
	// latch the first error and return it on every subsequent call").
	poisoned error
}

// New binds a parser to a byte source. Nothing is read until the first
// NextEntry call.
func New(src ByteSource) *Parser {
	return &Parser{
		cur:   newByteCursor(src),
		state: stateUninitialized,
	}
}

// NextEntry advances through one logical entry and returns it. Once the
// stream is exhausted (after the single Eof entry) it returns (nil,
// io.EOF) forever; any decode failure poisons the parser and is returned
// on this and every subsequent call.
func (p *Parser) NextEntry() (*Entry, error) {
	if p.poisoned != nil {
		return nil, p.poisoned
	}
	if p.state == stateExhausted {
		return nil, io.EOF
	}

	entry, err := p.nextEntryLocked()
	if err != nil && err != io.EOF {
		p.poisoned = err
	}
	return entry, err
}

func (p *Parser) nextEntryLocked() (*Entry, error) {
	if p.state == stateUninitialized {
		if err := p.parseHeader(); err != nil {
			return nil, err
		}
	}

	opcode, err := p.cur.readOne()
	if err != nil {
		return nil, err
	}

	switch opcode {
	case opEOF:
		return p.finishEof()

	case opSelectDB:
		db, err := p.readLength()
		if err != nil {
			return nil, err
		}
		p.Stats.recordDbSelect()
		return &Entry{Kind: KindDbSelect, DbIndex: int(db)}, nil

	case opExpireSec:
		raw, err := p.cur.readExact(4)
		if err != nil {
			return nil, err
		}
		vtByte, err := p.cur.readOne()
		if err != nil {
			return nil, err
		}
		return p.decodeEntryBody(Expiry{Unit: ExpirySeconds, Bytes: raw}, ValueType(vtByte))

	case opExpireMs:
		raw, err := p.cur.readExact(8)
		if err != nil {
			return nil, err
		}
		vtByte, err := p.cur.readOne()
		if err != nil {
			return nil, err
		}
		return p.decodeEntryBody(Expiry{Unit: ExpiryMilliseconds, Bytes: raw}, ValueType(vtByte))

	default:
		return p.decodeEntryBody(Expiry{}, ValueType(opcode))
	}
}

// parseHeader validates the 9-byte header: 5-byte ASCII magic "REDIS"
// followed by a 4-digit ASCII decimal version in 1..6 (spec §4.6, §6).
func (p *Parser) parseHeader() error {
	magic, err := p.cur.readExact(5)
	if err != nil {
		return err
	}
	if string(magic) != "REDIS" {
		return newErr(InvalidMagic, "header does not start with \"REDIS\"", nil)
	}

	verBytes, err := p.cur.readExact(4)
	if err != nil {
		return err
	}
	version, convErr := strconv.Atoi(string(verBytes))
	if convErr != nil || version < minSupportedVersion || version > maxSupportedVersion {
		return newErr(UnsupportedVersion, "stream version outside the supported 1..6 range", nil)
	}

	p.Version = version
	p.state = stateStreaming
	return nil
}

// finishEof reads the trailing checksum (8 real bytes for version >= 5,
// eight zero bytes otherwise) and transitions to Exhausted.
func (p *Parser) finishEof() (*Entry, error) {
	checksum := make([]byte, 8)
	if p.Version >= eofChecksumVersion {
		raw, err := p.cur.readExact(8)
		if err != nil {
			return nil, err
		}
		checksum = raw
	}
	p.state = stateExhausted
	return &Entry{Kind: KindEof, Checksum: checksum}, nil
}

// decodeEntryBody implements the "given (optional expiry, value-type V)"
// half of spec §4.6: read the key, then dispatch on V.
func (p *Parser) decodeEntryBody(expiry Expiry, vt ValueType) (*Entry, error) {
	key, err := p.readStringEncoded()
	if err != nil {
		return nil, err
	}

	value, err := p.decodeBody(vt)
	if err != nil {
		return nil, err
	}

	p.Stats.recordEntry(len(key))

	return &Entry{
		Kind:      KindKeyValuePair,
		Expiry:    expiry,
		Key:       key,
		ValueType: vt,
		Value:     value,
	}, nil
}
