package rdb

import (
	"fmt"

	lzf "github.com/zhuyie/golzf"
)

// Expand implements spec §4.4: a pure function that expands an LZF-
// compressed buffer into exactly dstLen bytes. The teacher already wires
// the golzf library for this exact case (readLZFString's RDB_ENC_LZF
// path), so the literal-run / back-reference algorithm stays delegated to
// it rather than hand-rolled a second time; this wrapper only enforces the
// "trusts ulen exactly" contract and surfaces a DecodeError on mismatch.
func Expand(src []byte, dstLen int) ([]byte, error) {
	dst := make([]byte, dstLen)
	n, err := lzf.Decompress(src, dst)
	if err != nil {
		return nil, wrapf(TruncatedStream, err, "LZF expansion failed")
	}
	if n != dstLen {
		return nil, newErr(TruncatedStream, fmt.Sprintf("LZF expanded length mismatch: expected %d, got %d", dstLen, n), nil)
	}
	return dst, nil
}
