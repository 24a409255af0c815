package rdb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildIntSet(width uint32, values ...int64) []byte {
	blob := make([]byte, 8)
	binary.LittleEndian.PutUint32(blob[0:4], width)
	binary.LittleEndian.PutUint32(blob[4:8], uint32(len(values)))
	for _, v := range values {
		buf := make([]byte, width)
		switch width {
		case 2:
			binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
		case 4:
			binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
		case 8:
			binary.LittleEndian.PutUint64(buf, uint64(v))
		}
		blob = append(blob, buf...)
	}
	return blob
}

func TestIntSetIterates(t *testing.T) {
	blob := buildIntSet(2, -5, 0, 300)
	view, err := NewIntSet(blob)
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
	require.Equal(t, []string{"-5", "0", "300"}, got)
}

func TestIntSetInvalidWidth(t *testing.T) {
	blob := buildIntSet(3, 1)
	_, err := NewIntSet(blob)
	require.Error(t, err)
}

func TestIntSetTruncatedHeader(t *testing.T) {
	_, err := NewIntSet([]byte{0x01, 0x02})
	require.Error(t, err)
}
