package rdb

// SortedSetAsZipList is a ziplist whose entries alternate (value,
// score-ascii). It wraps a plain ZipList cursor and adds nothing but
// parity bookkeeping: elements stream out exactly as the inner ziplist
// yields them, and an odd total count (spec §4.9) is reported as
// MalformedSortedSetAsZipList only once the inner cursor is exhausted,
// never before; the blob is never scanned up front.
type SortedSetAsZipList struct {
	inner *ZipList
	count int
}

// NewSortedSetAsZipList wraps the backing ziplist blob. Parsing, and the
// parity check it enables, happens lazily as Next is called.
func NewSortedSetAsZipList(blob []byte) (*SortedSetAsZipList, error) {
	return &SortedSetAsZipList{inner: NewZipList(blob)}, nil
}

// Next implements ContainerView.
func (s *SortedSetAsZipList) Next() ([]byte, bool, error) {
	elem, ok, err := s.inner.Next()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if s.count%2 != 0 {
			return nil, false, newErr(MalformedSortedSetAsZipList, "sorted-set-as-ziplist has an odd element count", nil)
		}
		return nil, false, nil
	}
	s.count++
	return elem, true, nil
}
