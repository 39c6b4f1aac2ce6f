package fsst

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the broad kind of failure. Detail types below
// wrap these; callers that only care about the kind can compare with
// errors.Is against these values instead of type-switching.
var (
	// ErrMalformedDump means dump bytes violate the symbol table grammar:
	// truncated input, a bad symbol length, or more than 255 entries.
	ErrMalformedDump = errors.New("fsst: malformed symbol table dump")

	// ErrDuplicateSymbol means a loaded dump contains two entries with an
	// identical byte payload, which would break the encoder's determinism
	// assumption (two codes could tie for the same longest match).
	ErrDuplicateSymbol = errors.New("fsst: duplicate symbol in dump")

	// ErrMalformedCodeStream means a code stream is invalid: an escape
	// code as the final byte with no following literal, or a code
	// indexing a symbol-table slot that has no assigned symbol.
	ErrMalformedCodeStream = errors.New("fsst: malformed code stream")
)

// MalformedCodeStreamError reports the first invalid byte encountered while
// decoding, together with its offset into the code stream, so a caller can
// point at exactly where a corrupt or truncated stream went wrong.
type MalformedCodeStreamError struct {
	Offset int
	reason string
}

func (e *MalformedCodeStreamError) Error() string {
	return fmt.Sprintf("fsst: malformed code stream at offset %d: %s", e.Offset, e.reason)
}

func (e *MalformedCodeStreamError) Unwrap() error { return ErrMalformedCodeStream }

func newTruncatedEscapeError(offset int) error {
	return &MalformedCodeStreamError{Offset: offset, reason: "escape code with no following literal byte"}
}

func newUnassignedCodeError(offset int, code byte) error {
	return &MalformedCodeStreamError{Offset: offset, reason: fmt.Sprintf("code %d has no assigned symbol", code)}
}
