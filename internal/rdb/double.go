package rdb

// Sentinel byte strings for the double-as-string encoding (spec §4.5),
// stable constants chosen to round-trip back into the source system's own
// formatter.
var (
	doubleNegInf = []byte("-inf")
	doublePosInf = []byte("inf")
	doubleNaN    = []byte("nan")
)

const (
	doubleLenNegInf = 255
	doubleLenPosInf = 254
	doubleLenNaN    = 253
)

// readDoubleAsString implements spec §4.5: one length byte, three sentinel
// values, otherwise that many raw ASCII-decimal bytes.
func (p *Parser) readDoubleAsString() ([]byte, error) {
	b, err := p.cur.readOne()
	if err != nil {
		return nil, err
	}
	switch b {
	case doubleLenNegInf:
		return doubleNegInf, nil
	case doubleLenPosInf:
		return doublePosInf, nil
	case doubleLenNaN:
		return doubleNaN, nil
	default:
		return p.cur.readExact(int(b))
	}
}
