package fsst

import (
	"fmt"
	"io"
)

// Table holds a trained symbol table for compression and decompression. A
// Table is produced by Train (or LoadTable) and is immutable and safe to
// share by reference across concurrent Encode/Decode calls once
// constructed: it carries no mutable per-call state.
type Table struct {
	// Encoder acceleration structures, populated incrementally by addSymbol.
	byteCodes   [256]uint16           // first byte -> packed(code,1), or the "no match" sentinel
	shortCodes  [65536]uint16         // first two bytes -> packed(code,2), or the "no match" sentinel
	longBuckets [hashTabSize][]uint16 // hash(first 3 bytes) -> codes of length>=3 symbols sharing that bucket
	symbols     [maxSymbols]symbol    // code -> symbol, valid for indices [0, nSymbols)
	nSymbols    uint16

	// Decoder acceleration: flattened per-code length/value, populated
	// alongside symbols so Decode never has to touch the symbol type.
	decLen [maxSymbols]byte
	decVal [maxSymbols]uint64
}

// noMatch is the packed sentinel stored in byteCodes/shortCodes for a
// prefix with no matching symbol of that length. Its length field (0)
// never equals 1 or 2, so callers can test for it with a single shift.
const noMatch = uint16(0)

// newTable returns an empty table with acceleration structures initialized
// to "no match" so lookups on an untrained table safely fall through to
// escape.
func newTable() *Table {
	t := &Table{}
	for i := range t.byteCodes {
		t.byteCodes[i] = noMatch
	}
	for i := range t.shortCodes {
		t.shortCodes[i] = noMatch
	}
	return t
}

// addSymbol assigns the next available code to sym and installs it into
// the lookup structure appropriate to its length:
//
//	1 byte    -> byteCodes
//	2 bytes   -> shortCodes
//	3-8 bytes -> longBuckets, keyed by a hash of the first 3 bytes
//
// Returns false if the table already holds maxSymbols entries.
func (t *Table) addSymbol(sym symbol) bool {
	if int(t.nSymbols) >= maxSymbols {
		return false
	}
	code := t.nSymbols
	length := sym.length()
	sym.setCodeLen(uint32(code), length)

	switch length {
	case 1:
		t.byteCodes[sym.first()] = packCodeLength(code, 1)
	case 2:
		t.shortCodes[sym.first2()] = packCodeLength(code, 2)
	default:
		h := sym.hash() & (hashTabSize - 1)
		t.longBuckets[h] = append(t.longBuckets[h], code)
	}

	t.symbols[code] = sym
	t.decLen[code] = byte(length)
	t.decVal[code] = sym.val
	t.nSymbols++
	return true
}

// longestMatch returns the code and byte length of the longest symbol in
// the table that is a prefix of input[offset:], capped at 8 bytes. It
// returns length 0 if no symbol matches, signaling that the encoder must
// escape the single byte at offset.
//
// Lookup order: long-symbol buckets (length >= 3, keep the longest
// confirmed match), then the 2-byte short-symbol index, then the 1-byte
// fallback. Ties between equal-length candidates in a bucket are broken by
// lower code value, keeping the result deterministic.
func (t *Table) longestMatch(input []byte, offset int) (code uint16, length int) {
	remaining := len(input) - offset

	if remaining >= 3 {
		word := loadWord(input[offset:])
		bucket := t.longBuckets[fsstHash(word&mask24)&(hashTabSize-1)]
		bestLen := 0
		var bestCode uint16
		for _, c := range bucket {
			sym := t.symbols[c]
			l := int(sym.length())
			if l > remaining || l < 3 {
				continue
			}
			if !sym.matches(word) {
				continue
			}
			if l > bestLen || (l == bestLen && c < bestCode) {
				bestLen = l
				bestCode = c
			}
		}
		if bestLen > 0 {
			return bestCode, bestLen
		}
	}

	if remaining >= 2 {
		packed := t.shortCodes[uint16(input[offset])|uint16(input[offset+1])<<8]
		if packed>>lenBits == 2 {
			return packed & codeBitMask, 2
		}
	}

	packed := t.byteCodes[input[offset]]
	if packed>>lenBits == 1 {
		return packed & codeBitMask, 1
	}

	return 0, 0
}

// Size returns the number of learned symbols currently in the table.
func (t *Table) Size() int { return int(t.nSymbols) }

// SymbolAt returns the raw bytes of the symbol assigned to code. It panics
// if code is not less than Size(), mirroring slice-index semantics.
func (t *Table) SymbolAt(code int) []byte {
	return t.symbols[:t.nSymbols][code].bytes()
}

// Encode compresses input, optionally reusing buf for the output. buf may
// be nil or undersized; it is grown as needed. Output length never exceeds
// 2*len(input) (worst case: every byte escapes).
func (t *Table) Encode(buf, input []byte) []byte {
	needed := 2 * len(input)
	if buf == nil || cap(buf) < needed {
		buf = make([]byte, needed)
	} else {
		buf = buf[:cap(buf)]
	}

	outPos := 0
	pos := 0
	for pos < len(input) {
		code, length := t.longestMatch(input, pos)
		if length == 0 {
			buf[outPos] = escapeCode
			buf[outPos+1] = input[pos]
			outPos += 2
			pos++
			continue
		}
		buf[outPos] = byte(code)
		outPos++
		pos += length
	}
	return buf[:outPos]
}

// EncodeAll compresses input and returns a newly allocated byte slice.
func (t *Table) EncodeAll(input []byte) []byte { return t.Encode(nil, input) }

// EncodeString compresses a string and returns a newly allocated byte slice.
func (t *Table) EncodeString(s string) []byte { return t.Encode(nil, []byte(s)) }

// Decode decompresses src, optionally reusing buf for the output. buf may
// be nil or undersized; it is grown as needed. Decode validates the code
// stream as it walks and returns a *MalformedCodeStreamError at the first
// violation, with the byte offset in src where it was detected.
func (t *Table) Decode(buf, src []byte) ([]byte, error) {
	if buf == nil {
		buf = make([]byte, 0, len(src)*4+8)
	}
	bufCap := cap(buf)
	buf = buf[:bufCap]
	bufPos := 0

	pos := 0
	for pos < len(src) {
		c := src[pos]

		if c == escapeCode {
			if pos+1 >= len(src) {
				return nil, newTruncatedEscapeError(pos)
			}
			if bufPos >= bufCap {
				bufCap = max(bufCap*2, bufPos+1)
				grown := make([]byte, bufCap)
				copy(grown, buf[:bufPos])
				buf = grown
			}
			buf[bufPos] = src[pos+1]
			bufPos++
			pos += 2
			continue
		}

		if uint16(c) >= t.nSymbols {
			return nil, newUnassignedCodeError(pos, c)
		}

		length := int(t.decLen[c])
		if bufPos+length > bufCap {
			bufCap = max(bufCap*2, bufPos+length)
			grown := make([]byte, bufCap)
			copy(grown, buf[:bufPos])
			buf = grown
		}
		val := t.decVal[c]
		for i := 0; i < length; i++ {
			buf[bufPos+i] = byte(val)
			val >>= 8
		}
		bufPos += length
		pos++
	}
	return buf[:bufPos], nil
}

// DecodeAll decompresses src and returns a newly allocated byte slice.
func (t *Table) DecodeAll(src []byte) ([]byte, error) { return t.Decode(nil, src) }

// DecodeString decompresses a string and returns a newly allocated byte slice.
func (t *Table) DecodeString(s string) ([]byte, error) { return t.Decode(nil, []byte(s)) }

// Dump serializes the table using the bit-exact format:
//
//	[N : 1 byte]
//	repeat N times:
//	  [len : 1 byte]
//	  [payload : len bytes]
//
// The order of entries defines code assignment: the i-th entry (0-indexed)
// receives code i. The escape code (0xFF) is never assigned a symbol.
func (t *Table) Dump() []byte {
	buf := make([]byte, 0, 1+int(t.nSymbols)*(1+maxSymbolLength))
	buf = append(buf, byte(t.nSymbols))
	for i := 0; i < int(t.nSymbols); i++ {
		sym := t.symbols[i]
		buf = append(buf, byte(sym.length()))
		buf = append(buf, sym.bytes()...)
	}
	return buf
}

// LoadTable deserializes a Table from data produced by Dump. It rejects
// dumps with a symbol length of 0 or greater than 8, a truncated payload,
// more than 255 entries, or two entries with an identical byte payload.
func LoadTable(data []byte) (*Table, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedDump)
	}
	n := int(data[0])
	t := newTable()
	seen := make(map[string]struct{}, n)
	pos := 1

	for i := 0; i < n; i++ {
		if pos >= len(data) {
			return nil, fmt.Errorf("%w: truncated before entry %d's length byte", ErrMalformedDump, i)
		}
		length := int(data[pos])
		pos++
		if length < 1 || length > maxSymbolLength {
			return nil, fmt.Errorf("%w: entry %d has length %d", ErrMalformedDump, i, length)
		}
		if pos+length > len(data) {
			return nil, fmt.Errorf("%w: truncated payload for entry %d", ErrMalformedDump, i)
		}
		payload := data[pos : pos+length]
		pos += length

		key := string(payload)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, payload)
		}
		seen[key] = struct{}{}

		if !t.addSymbol(newSymbolFromBytes(payload)) {
			return nil, fmt.Errorf("%w: more than %d entries", ErrMalformedDump, maxSymbols)
		}
	}
	return t, nil
}

// WriteTo writes the table's Dump() form to w, implementing io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.Dump())
	return int64(n), err
}

// ReadFrom replaces t's contents by loading a dump read from r, implementing
// io.ReaderFrom.
func (t *Table) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	loaded, err := LoadTable(data)
	if err != nil {
		return int64(len(data)), err
	}
	*t = *loaded
	return int64(len(data)), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t *Table) MarshalBinary() ([]byte, error) { return t.Dump(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *Table) UnmarshalBinary(data []byte) error {
	loaded, err := LoadTable(data)
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}
