package rdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadDoubleAsStringSentinels(t *testing.T) {
	cases := []struct {
		b    byte
		want string
	}{
		{255, "-inf"},
		{254, "inf"},
		{253, "nan"},
	}
	for _, c := range cases {
		p := newParserBody([]byte{c.b})
		got, err := p.readDoubleAsString()
		require.NoError(t, err)
		require.Equal(t, c.want, string(got))
	}
}

func TestReadDoubleAsStringPlain(t *testing.T) {
	p := newParserBody([]byte{0x04, '3', '.', '1', '4'})
	got, err := p.readDoubleAsString()
	require.NoError(t, err)
	require.Equal(t, "3.14", string(got))
}
