package rdb

// ValueType is one of the nine recognized value-type tags (spec §3), with
// numeric codes fixed by the wire format.
type ValueType byte

const (
	TypeValue              ValueType = 0
	TypeList               ValueType = 1
	TypeSet                ValueType = 2
	TypeSortedSet          ValueType = 3
	TypeHash               ValueType = 4
	TypeZipmap             ValueType = 9 // always rejected, spec §4.6
	TypeZipList            ValueType = 10
	TypeIntSet             ValueType = 11
	TypeSortedSetAsZipList ValueType = 12
	TypeHashMapAsZipList   ValueType = 13
)

func (t ValueType) String() string {
	switch t {
	case TypeValue:
		return "VALUE"
	case TypeList:
		return "LIST"
	case TypeSet:
		return "SET"
	case TypeSortedSet:
		return "SORTED_SET"
	case TypeHash:
		return "HASH"
	case TypeZipmap:
		return "ZIPMAP"
	case TypeZipList:
		return "ZIPLIST"
	case TypeIntSet:
		return "INTSET"
	case TypeSortedSetAsZipList:
		return "SORTED_SET_AS_ZIPLIST"
	case TypeHashMapAsZipList:
		return "HASHMAP_AS_ZIPLIST"
	default:
		return "UNKNOWN"
	}
}

// EntryKind discriminates the three Entry variants (spec §3).
type EntryKind int

const (
	KindDbSelect EntryKind = iota
	KindKeyValuePair
	KindEof
)

// ExpiryUnit tells the consumer which unit the raw expiry bytes carry.
type ExpiryUnit int

const (
	ExpiryNone ExpiryUnit = iota
	ExpirySeconds
	ExpiryMilliseconds
)

// Expiry is the raw little-endian timestamp bytes plus a discriminator,
// surfaced as-is rather than converted to a time.Time (spec §3: "the
// decoder surfaces the raw bytes").
type Expiry struct {
	Unit  ExpiryUnit
	Bytes []byte // 4 bytes for ExpirySeconds, 8 for ExpiryMilliseconds, nil otherwise
}

// Value is the decoded payload of a KeyValuePair entry. Exactly one of the
// fields is meaningful, selected by the parent Entry's ValueType.
type Value struct {
	// String holds the single byte string for TypeValue.
	String []byte

	// Items holds an ordered, already-flattened sequence of byte strings:
	//   TypeList / TypeSet:     one element per item
	//   TypeSortedSet:          alternating (member, score-ascii)
	//   TypeHash:               alternating (field, value)
	Items [][]byte

	// Container holds a lazy view for the four embedded-blob encodings:
	// TypeZipList, TypeIntSet, TypeSortedSetAsZipList, TypeHashMapAsZipList.
	Container ContainerView
}

// ContainerView is implemented by the four embedded self-describing blob
// decoders (spec §4.7-4.9). Iteration is forward-only and lazy; a fresh
// view constructed over the same blob yields an identical sequence (spec
// §8 property 6), and iterating never mutates the backing blob.
type ContainerView interface {
	// Next returns the next element, or ok=false once exhausted. err is
	// set only on a malformed blob.
	Next() (elem []byte, ok bool, err error)
}

// Entry is the tagged union the parser emits (spec §3).
type Entry struct {
	Kind EntryKind

	// KindDbSelect
	DbIndex int

	// KindKeyValuePair
	Expiry    Expiry
	Key       []byte
	ValueType ValueType
	Value     Value

	// KindEof
	Checksum []byte // always 8 bytes; zero-filled for version < 5
}
