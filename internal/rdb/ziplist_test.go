package rdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildZipList assembles a minimal ziplist blob: a 10-byte header (whose
// exact bytes are informational only, per spec §4.7) followed by caller-
// supplied entry bytes and the 0xFF end marker.
func buildZipList(entries ...[]byte) []byte {
	blob := make([]byte, zipListHeaderSize)
	for _, e := range entries {
		blob = append(blob, e...)
	}
	blob = append(blob, 0xFF)
	return blob
}

// zlStringEntry encodes a short (<64 byte) string as a ziplist entry with
// a 1-byte prevlen and a 6-bit-length encoding byte.
func zlStringEntry(prevLen byte, s string) []byte {
	out := []byte{prevLen, byte(len(s))}
	return append(out, s...)
}

func zlInt16Entry(prevLen byte, v int16) []byte {
	return []byte{prevLen, 0xC0, byte(v), byte(v >> 8)}
}

func TestZipListStrings(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "a"), zlStringEntry(2, "1"))
	view := NewZipList(blob)

	elem, ok, err := view.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", string(elem))

	elem, ok, err = view.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", string(elem))

	_, ok, err = view.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestZipListInt16(t *testing.T) {
	blob := buildZipList(zlInt16Entry(0, 256))
	view := NewZipList(blob)
	elem, ok, err := view.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "256", string(elem))
}

func TestZipListMissingEndMarker(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "a"))
	blob = blob[:len(blob)-1] // drop the 0xFF marker
	view := NewZipList(blob)
	_, _, err := view.Next() // "a" itself reads fine
	require.NoError(t, err)
	_, _, err = view.Next() // now off the end, no marker
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, MalformedZipList, de.Kind)
}

func TestZipListIdempotentFreshView(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "x"), zlStringEntry(2, "y"))

	collect := func() []string {
		view := NewZipList(blob)
		var out []string
		for {
			elem, ok, err := view.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			out = append(out, string(elem))
		}
		return out
	}

	require.Equal(t, collect(), collect())
}
