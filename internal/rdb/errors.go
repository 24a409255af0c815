package rdb

import "fmt"

// ErrorKind classifies why a parser gave up on a stream. All kinds are
// fatal to the current parser; there is no recovery path once one is
// returned from NextEntry.
type ErrorKind int

const (
	// TruncatedStream signals the underlying byte source ended mid-read.
	TruncatedStream ErrorKind = iota
	// InvalidMagic signals the 5-byte header was not "REDIS".
	InvalidMagic
	// UnsupportedVersion signals the 4-digit version fell outside 1..6.
	UnsupportedVersion
	// UnexpectedSpecialEncoding signals a length read hit the special-string flag.
	UnexpectedSpecialEncoding
	// UnknownSpecialEncoding signals a string-encoding subtype outside 0..3.
	UnknownSpecialEncoding
	// DeprecatedZipmap signals value-type 9 (zipmap) was encountered.
	DeprecatedZipmap
	// UnknownValueType signals a value-type byte outside the recognized set.
	UnknownValueType
	// OversizedCollection signals a declared element count exceeds the
	// platform's signed 32-bit index ceiling (halved for pair-valued types).
	OversizedCollection
	// OversizedString signals a 32-bit string length with the sign bit set.
	OversizedString
	// MalformedZipList signals a malformed embedded ziplist or intset blob:
	// a missing end marker, a truncated entry, or a bad intset header.
	MalformedZipList
	// MalformedSortedSetAsZipList signals an odd element count in a
	// sorted-set-as-ziplist blob.
	MalformedSortedSetAsZipList
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedStream:
		return "TruncatedStream"
	case InvalidMagic:
		return "InvalidMagic"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case UnexpectedSpecialEncoding:
		return "UnexpectedSpecialEncoding"
	case UnknownSpecialEncoding:
		return "UnknownSpecialEncoding"
	case DeprecatedZipmap:
		return "DeprecatedZipmap"
	case UnknownValueType:
		return "UnknownValueType"
	case OversizedCollection:
		return "OversizedCollection"
	case OversizedString:
		return "OversizedString"
	case MalformedZipList:
		return "MalformedZipList"
	case MalformedSortedSetAsZipList:
		return "MalformedSortedSetAsZipList"
	default:
		return "Unknown"
	}
}

// DecodeError is the concrete error type returned by the parser and its
// helpers. It carries the sentinel kind so callers can branch with
// errors.Is/errors.As, plus a human message for logs.
type DecodeError struct {
	Kind ErrorKind
	Msg  string
	Err  error // wrapped cause, if any (e.g. the underlying io error)
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &DecodeError{Kind: SomeKind}) match any
// *DecodeError of the same Kind; targets of any other type never match.
func (e *DecodeError) Is(target error) bool {
	if other, ok := target.(*DecodeError); ok {
		return e.Kind == other.Kind
	}
	return false
}

func newErr(kind ErrorKind, msg string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Msg: msg, Err: cause}
}

func wrapf(kind ErrorKind, cause error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}
