package rdb

// decodeBody implements the entry-body dispatch table in spec §4.6: given
// an already-read key and value-type tag, decode the remaining payload
// into a Value.
func (p *Parser) decodeBody(vt ValueType) (Value, error) {
	switch vt {
	case TypeValue:
		return p.decodeValue()
	case TypeList, TypeSet:
		return p.decodeFlatList()
	case TypeSortedSet:
		return p.decodePairList(true, p.readSortedSetPair)
	case TypeHash:
		return p.decodePairList(true, p.readHashPair)
	case TypeZipmap:
		return Value{}, newErr(DeprecatedZipmap, "value-type 9 (zipmap) is not supported", nil)
	case TypeZipList, TypeHashMapAsZipList:
		return p.decodeZipListContainer()
	case TypeIntSet:
		return p.decodeIntSetContainer()
	case TypeSortedSetAsZipList:
		return p.decodeSortedSetAsZipListContainer()
	default:
		return Value{}, newErr(UnknownValueType, "value-type byte outside the recognized set", nil)
	}
}

func (p *Parser) decodeValue() (Value, error) {
	s, err := p.readStringEncoded()
	if err != nil {
		return Value{}, err
	}
	return Value{String: s}, nil
}

// decodeFlatList reads a length L followed by L string-encoded values
// (LIST/SET, spec §4.6 table).
func (p *Parser) decodeFlatList() (Value, error) {
	length, err := p.readLength()
	if err != nil {
		return Value{}, err
	}
	if err := checkCollectionCount(length, false); err != nil {
		return Value{}, err
	}

	items := make([][]byte, 0, length)
	for i := uint64(0); i < length; i++ {
		elem, err := p.readStringEncoded()
		if err != nil {
			return Value{}, err
		}
		items = append(items, elem)
	}
	return Value{Items: items}, nil
}

// pairReader reads one (a, b) pair; decodePairList appends both to items.
type pairReader func() (a, b []byte, err error)

// decodePairList reads a length L followed by L pairs, flattened into a
// 2L-element Items slice (SORTED_SET/HASH, spec §4.6 table).
func (p *Parser) decodePairList(halved bool, read pairReader) (Value, error) {
	length, err := p.readLength()
	if err != nil {
		return Value{}, err
	}
	if err := checkCollectionCount(length, halved); err != nil {
		return Value{}, err
	}

	items := make([][]byte, 0, length*2)
	for i := uint64(0); i < length; i++ {
		a, b, err := read()
		if err != nil {
			return Value{}, err
		}
		items = append(items, a, b)
	}
	return Value{Items: items}, nil
}

func (p *Parser) readSortedSetPair() (value, score []byte, err error) {
	value, err = p.readStringEncoded()
	if err != nil {
		return nil, nil, err
	}
	score, err = p.readDoubleAsString()
	if err != nil {
		return nil, nil, err
	}
	return value, score, nil
}

func (p *Parser) readHashPair() (field, value []byte, err error) {
	field, err = p.readStringEncoded()
	if err != nil {
		return nil, nil, err
	}
	value, err = p.readStringEncoded()
	if err != nil {
		return nil, nil, err
	}
	return field, value, nil
}

func (p *Parser) decodeZipListContainer() (Value, error) {
	blob, err := p.readStringEncoded()
	if err != nil {
		return Value{}, err
	}
	return Value{Container: NewZipList(blob)}, nil
}

func (p *Parser) decodeIntSetContainer() (Value, error) {
	blob, err := p.readStringEncoded()
	if err != nil {
		return Value{}, err
	}
	view, err := NewIntSet(blob)
	if err != nil {
		return Value{}, err
	}
	return Value{Container: view}, nil
}

func (p *Parser) decodeSortedSetAsZipListContainer() (Value, error) {
	blob, err := p.readStringEncoded()
	if err != nil {
		return Value{}, err
	}
	view, err := NewSortedSetAsZipList(blob)
	if err != nil {
		return Value{}, err
	}
	return Value{Container: view}, nil
}
