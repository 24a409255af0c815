package rdb

// parserState enumerates the three lifecycle states from spec §3/§4.6.
type parserState int

const (
	stateUninitialized parserState = iota
	stateStreaming
	stateExhausted
)

func (s parserState) String() string {
	switch s {
	case stateUninitialized:
		return "Uninitialized"
	case stateStreaming:
		return "Streaming"
	case stateExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

const (
	minSupportedVersion = 1
	maxSupportedVersion = 6
)
