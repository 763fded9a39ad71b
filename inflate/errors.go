package inflate

// Error is the inflator's error taxonomy. All values are fatal: once an
// Inflator reports one, it latches and every subsequent call to Inflate
// returns the same Error until Reset.
type Error int

const (
	// errNone is the zero value: no error has occurred.
	errNone Error = iota

	// ErrBadBlock is a reserved block type (BTYPE 3) or a stored-block
	// LEN/NLEN mismatch.
	ErrBadBlock

	// ErrBadTree is a dynamic-block header that violates the format:
	// an oversized alphabet, a missing end-of-block code, a repeat code
	// with nothing to repeat, or a total length that overflows HLIT+HDIST.
	ErrBadTree

	// ErrBadCode is a decoded symbol landing on an unused (INVALID) slot
	// of an otherwise validly constructed canonical tree.
	ErrBadCode

	// ErrFarOffset is a back-reference distance exceeding the available
	// history (bytes produced so far plus any installed dictionary).
	ErrFarOffset

	// ErrInputEnd is returned when the caller declared the supplied input
	// final (via Inflate(true)) but the decoder still needs more bytes to
	// make progress.
	ErrInputEnd

	// ErrIncorrectUse is an API misuse, such as installing a dictionary
	// after decoding has already begun.
	ErrIncorrectUse

	// ErrBadState is latched when a failure that is not one of the
	// values above reaches the Inflator. A call on an Inflator that has
	// already failed returns the error it latched, not ErrBadState.
	ErrBadState
)

func (e Error) Error() string {
	switch e {
	case ErrBadBlock:
		return "inflate: bad block type or stored-block length mismatch"
	case ErrBadTree:
		return "inflate: invalid dynamic Huffman tree"
	case ErrBadCode:
		return "inflate: invalid Huffman code"
	case ErrFarOffset:
		return "inflate: back-reference distance exceeds available history"
	case ErrInputEnd:
		return "inflate: input ended before the stream completed"
	case ErrIncorrectUse:
		return "inflate: incorrect API use"
	case ErrBadState:
		return "inflate: operation on a failed Inflator"
	default:
		return "inflate: no error"
	}
}

// Result is the outcome of a single Inflate call.
type Result int

const (
	// OK means the stream reached its final block and is fully decoded.
	OK Result = iota

	// SrcExhausted means the decoder consumed all of the current source
	// buffer and needs more input to make further progress.
	SrcExhausted

	// TgtExhausted means the decoder filled the current target buffer and
	// needs more output space to make further progress.
	TgtExhausted
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case SrcExhausted:
		return "SrcExhausted"
	case TgtExhausted:
		return "TgtExhausted"
	default:
		return "unknown"
	}
}
