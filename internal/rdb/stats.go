package rdb

import "sync/atomic"

// Stats are decode counters a caller can sample while a Parser runs.
// Invariant 5 (spec §3) means returned entries own their buffers
// independently and must never be pooled/recycled by the decoder the way
// the teacher's entry_pool.go reuses *RDBEntry values, so this replaces
// that object-pool idea with plain atomic counters instead, grounded on
// the same reduce-overhead-under-sync.Pool motivation.
type Stats struct {
	Entries   atomic.Int64
	DbSelects atomic.Int64
	Bytes     atomic.Int64
}

func (s *Stats) recordEntry(keyValueBytes int) {
	s.Entries.Add(1)
	s.Bytes.Add(int64(keyValueBytes))
}

func (s *Stats) recordDbSelect() {
	s.DbSelects.Add(1)
}

// Snapshot is a point-in-time copy safe to read without racing the parser.
type Snapshot struct {
	Entries   int64
	DbSelects int64
	Bytes     int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Entries:   s.Entries.Load(),
		DbSelects: s.DbSelects.Load(),
		Bytes:     s.Bytes.Load(),
	}
}
