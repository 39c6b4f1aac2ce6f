package fsst

// CodeStream is the output of Encode: a sequence of symbol-table codes and
// escape/literal pairs, meaningful only relative to the Table that produced
// it. It carries no header of its own; pair it with EncodeWithTable when the
// table itself needs to travel alongside the stream.
type CodeStream []byte

// Encode compresses input against t and returns the resulting code stream.
// It is a thin wrapper around Table.EncodeAll for callers that prefer to
// work in terms of the abstract CodeStream type rather than a raw []byte.
func Encode(t *Table, input []byte) CodeStream {
	return CodeStream(t.EncodeAll(input))
}

// Decode reverses Encode, decompressing code against t.
func Decode(t *Table, code CodeStream) ([]byte, error) {
	return t.DecodeAll(code)
}
