package fsst

import (
	"encoding/binary"
	"fmt"
)

// EncodeStrings compresses each input against t, returning one code stream
// per input in the same order. It is a thin sequential loop over Encode; per
// the concurrency model, callers who want inputs encoded in parallel do so
// with their own goroutines, since Table is safe for concurrent read-only use.
func EncodeStrings(t *Table, inputs [][]byte) [][]byte {
	out := make([][]byte, len(inputs))
	for i, in := range inputs {
		out[i] = t.EncodeAll(in)
	}
	return out
}

// DecodeStrings decompresses each code stream against t, returning the
// original bytes in the same order. It stops and returns the first error
// encountered, along with the results already decoded (in the same slice,
// truncated to the successful prefix).
func DecodeStrings(t *Table, codes [][]byte) ([][]byte, error) {
	out := make([][]byte, len(codes))
	for i, c := range codes {
		dec, err := t.DecodeAll(c)
		if err != nil {
			return out[:i], fmt.Errorf("decoding entry %d: %w", i, err)
		}
		out[i] = dec
	}
	return out, nil
}

// EncodeWithTable compresses input against t and writes the table's own dump
// ahead of the code stream into a single self-describing buffer:
//
//	[uvarint dumpLen][dump bytes][code stream bytes]
//
// This mirrors the "encode with embedded table" convenience the algorithm
// this package implements offers for the single-string persistence case,
// where shipping the table separately from its one encoded string is
// needless bookkeeping.
func EncodeWithTable(t *Table, input []byte) []byte {
	dump := t.Dump()
	code := t.EncodeAll(input)

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(dump)))

	out := make([]byte, 0, n+len(dump)+len(code))
	out = append(out, lenBuf[:n]...)
	out = append(out, dump...)
	out = append(out, code...)
	return out
}

// DecodeWithTable splits a buffer produced by EncodeWithTable back into its
// embedded table and code stream, and returns the decoded original bytes.
func DecodeWithTable(data []byte) ([]byte, error) {
	dumpLen, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: invalid embedded table length prefix", ErrMalformedDump)
	}
	rest := data[n:]
	if uint64(len(rest)) < dumpLen {
		return nil, fmt.Errorf("%w: truncated embedded table", ErrMalformedDump)
	}

	table, err := LoadTable(rest[:dumpLen])
	if err != nil {
		return nil, err
	}
	code := rest[dumpLen:]
	return table.DecodeAll(code)
}
