package rdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortedSetAsZipListPairs(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "alice"), zlStringEntry(2, "1.5"))
	view, err := NewSortedSetAsZipList(blob)
	require.NoError(t, err)

	var got []string
	for {
		elem, ok, err := view.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(elem))
	}
	require.Equal(t, []string{"alice", "1.5"}, got)
}

func TestSortedSetAsZipListOddCountIsMalformed(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "alice"))
	view, err := NewSortedSetAsZipList(blob)
	require.NoError(t, err)

	elem, ok, err := view.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", string(elem))

	_, ok, err = view.Next()
	require.False(t, ok)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, MalformedSortedSetAsZipList, de.Kind)
}
