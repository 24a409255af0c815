package rdb

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func header(version string) []byte {
	return append([]byte("REDIS"), []byte(version)...)
}

func lenByte(n byte) byte { return n & 0x3F } // flag 00, small length

// TestS1EmptyDB: spec §8 scenario S1.
func TestS1EmptyDB(t *testing.T) {
	checksum := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	stream := append(header("0006"), opEOF)
	stream = append(stream, checksum...)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, KindEof, e.Kind)
	require.Equal(t, checksum, e.Checksum)

	_, err = p.NextEntry()
	require.ErrorIs(t, err, io.EOF)
}

// TestS2VersionGating: spec §8 scenario S2 (version < 5, zero checksum,
// no trailing bytes on the wire).
func TestS2VersionGating(t *testing.T) {
	stream := append(header("0004"), opEOF)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, KindEof, e.Kind)
	require.Equal(t, make([]byte, 8), e.Checksum)
}

// TestS3SingleStringValue: spec §8 scenario S3.
func TestS3SingleStringValue(t *testing.T) {
	stream := append([]byte{}, header("0006")...)
	stream = append(stream, opSelectDB, 0x00)
	stream = append(stream, byte(TypeValue))
	stream = append(stream, lenByte(3), 'f', 'o', 'o')
	stream = append(stream, lenByte(3), 'b', 'a', 'r')
	stream = append(stream, opEOF)
	stream = append(stream, make([]byte, 8)...)

	p := New(bytes.NewReader(stream))

	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, KindDbSelect, e.Kind)
	require.Equal(t, 0, e.DbIndex)

	e, err = p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, KindKeyValuePair, e.Kind)
	require.Equal(t, ExpiryNone, e.Expiry.Unit)
	require.Equal(t, "foo", string(e.Key))
	require.Equal(t, TypeValue, e.ValueType)
	require.Equal(t, "bar", string(e.Value.String))

	e, err = p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, KindEof, e.Kind)
}

// TestS4IntegerSpecialString: spec §8 scenario S4, via the full parser
// instead of the bare string decoder.
func TestS4IntegerSpecialString(t *testing.T) {
	stream := append([]byte{}, header("0006")...)
	stream = append(stream, byte(TypeValue))
	stream = append(stream, lenByte(1), 'k')
	stream = append(stream, 0xC2, 0xFE, 0xFF, 0xFF, 0xFF) // int32 special -> "-2"
	stream = append(stream, opEOF)
	stream = append(stream, make([]byte, 8)...)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, "-2", string(e.Value.String))
}

// TestS5MillisecondsExpiry: spec §8 scenario S5.
func TestS5MillisecondsExpiry(t *testing.T) {
	var msBuf [8]byte
	const ms = uint64(1_500_000_000_000)
	for i := 0; i < 8; i++ {
		msBuf[i] = byte(ms >> (8 * i))
	}

	stream := append([]byte{}, header("0006")...)
	stream = append(stream, opExpireMs)
	stream = append(stream, msBuf[:]...)
	stream = append(stream, byte(TypeValue))
	stream = append(stream, lenByte(1), 'k')
	stream = append(stream, lenByte(1), 'v')
	stream = append(stream, opEOF)
	stream = append(stream, make([]byte, 8)...)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, ExpiryMilliseconds, e.Expiry.Unit)
	require.Equal(t, msBuf[:], e.Expiry.Bytes)
	require.Equal(t, "k", string(e.Key))
	require.Equal(t, "v", string(e.Value.String))
}

// TestS6HashMapAsZipList: spec §8 scenario S6.
func TestS6HashMapAsZipList(t *testing.T) {
	blob := buildZipList(zlStringEntry(0, "a"), zlStringEntry(2, "1"))

	stream := append([]byte{}, header("0006")...)
	stream = append(stream, byte(TypeHashMapAsZipList))
	stream = append(stream, lenByte(1), 'k')
	stream = append(stream, lenByte(byte(len(blob))))
	stream = append(stream, blob...)
	stream = append(stream, opEOF)
	stream = append(stream, make([]byte, 8)...)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Equal(t, TypeHashMapAsZipList, e.ValueType)

	var got [][]byte
	for {
		elem, ok, err := e.Value.Container.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, elem)
	}
	require.Equal(t, [][]byte{[]byte("a"), []byte("1")}, got)
}

func TestInvalidMagic(t *testing.T) {
	p := New(bytes.NewReader([]byte("NOTREDIS0006")))
	_, err := p.NextEntry()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, InvalidMagic, de.Kind)
}

func TestUnsupportedVersion(t *testing.T) {
	p := New(bytes.NewReader(append(header("0009"), opEOF)))
	_, err := p.NextEntry()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, UnsupportedVersion, de.Kind)
}

func TestDeprecatedZipmapRejected(t *testing.T) {
	stream := append([]byte{}, header("0006")...)
	stream = append(stream, byte(TypeZipmap))
	stream = append(stream, lenByte(1), 'k')

	p := New(bytes.NewReader(stream))
	_, err := p.NextEntry()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, DeprecatedZipmap, de.Kind)
}

func TestUnknownValueType(t *testing.T) {
	stream := append([]byte{}, header("0006")...)
	stream = append(stream, byte(30))
	stream = append(stream, lenByte(1), 'k')

	p := New(bytes.NewReader(stream))
	_, err := p.NextEntry()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, UnknownValueType, de.Kind)
}

func TestParserPoisonsAfterError(t *testing.T) {
	p := New(bytes.NewReader([]byte("BADMAGIC0")))
	_, err1 := p.NextEntry()
	require.Error(t, err1)
	_, err2 := p.NextEntry()
	require.Equal(t, err1, err2)
}

// TestListAndHashCounts: spec §8 property 4.
func TestListAndHashCounts(t *testing.T) {
	stream := append([]byte{}, header("0006")...)
	stream = append(stream, byte(TypeList))
	stream = append(stream, lenByte(1), 'k')
	stream = append(stream, lenByte(2)) // length 2
	stream = append(stream, lenByte(1), 'x')
	stream = append(stream, lenByte(1), 'y')
	stream = append(stream, opEOF)
	stream = append(stream, make([]byte, 8)...)

	p := New(bytes.NewReader(stream))
	e, err := p.NextEntry()
	require.NoError(t, err)
	require.Len(t, e.Value.Items, 2)

	stream2 := append([]byte{}, header("0006")...)
	stream2 = append(stream2, byte(TypeHash))
	stream2 = append(stream2, lenByte(1), 'k')
	stream2 = append(stream2, lenByte(1)) // 1 pair
	stream2 = append(stream2, lenByte(1), 'f')
	stream2 = append(stream2, lenByte(1), 'v')
	stream2 = append(stream2, opEOF)
	stream2 = append(stream2, make([]byte, 8)...)

	p2 := New(bytes.NewReader(stream2))
	e2, err := p2.NextEntry()
	require.NoError(t, err)
	require.Len(t, e2.Value.Items, 2) // flattened 2L
}
