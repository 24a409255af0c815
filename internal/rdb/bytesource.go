package rdb

import (
	"bufio"
	"io"
)

// bufferSize is the ByteSource's refill unit. A policy, not a contract:
// callers never observe it except through read latency.
const bufferSize = 8 * 1024

// ByteSource is the sequential read contract the core decoder consumes
// (spec §6): some bytes into a caller region, or a sentinel for end of
// stream, plus a close. io.Reader already expresses exactly that, so a
// ByteSource is just an io.Reader; Close is optional (io.Closer).
type ByteSource interface {
	io.Reader
}

// byteCursor wraps a ByteSource with an 8 KiB buffer and exposes the two
// operations the rest of the decoder needs: readOne (one byte) and
// readExact (n owned bytes). It mirrors the teacher's bufio.Reader-backed
// RDBParser.reader field — bufio.Reader already implements exactly the
// "refill on exhaustion, fail on truncation" policy spec §4.1 asks for, so
// we wrap it rather than hand-roll a second ring buffer.
type byteCursor struct {
	r *bufio.Reader
}

func newByteCursor(src ByteSource) *byteCursor {
	return &byteCursor{r: bufio.NewReaderSize(src, bufferSize)}
}

// readOne reads a single byte, failing with TruncatedStream on EOF.
func (c *byteCursor) readOne() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, wrapf(TruncatedStream, err, "reading 1 byte")
	}
	return b, nil
}

// readExact reads exactly n bytes into a freshly allocated, owned buffer.
// A short read before n bytes are satisfied is a TruncatedStream error.
func (c *byteCursor) readExact(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, wrapf(TruncatedStream, err, "reading %d bytes", n)
	}
	return buf, nil
}
