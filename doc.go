// Package fsst implements FSST (Fast Static Symbol Table) compression: a
// table of up to 255 short byte-string symbols, learned once from a sample
// and then reused to replace matches with single-byte codes on every
// string encoded against it.
//
// # Overview
//
// A table is built by Train from representative sample data and then
// frozen; Encode/Decode (and their String and All variants) use it
// read-only afterward, so the same table can serve concurrent callers
// without locking. A single reserved code (0xFF) escapes any byte the
// table has no symbol for, so every input is encodable even against an
// untrained or partially-trained table — encoding never fails, though an
// unrepresentative table compresses poorly.
//
// # Good and Bad Fits
//
// This shines on short, structurally similar records that recur across a
// dataset: JSON documents, CSV rows, log lines, URLs, timestamps. Because
// the table caps out at 255 symbols and is trained once up front, a good
// fit means many records sharing a small, stable vocabulary — a table
// tuned on one day's log format keeps working the next day.
//
// It is a poor fit for data with no shared vocabulary to learn: already
// compressed or encrypted bytes, one-off payloads too small to amortize
// the training cost, or a corpus so heterogeneous that no 255-symbol table
// covers a useful fraction of it. gzip or zstd handle that territory
// better because they discover structure per-input instead of relying on
// a table trained in advance.
//
// # How It Compares
//
// Against a general-purpose compressor like gzip or zstd, the appeal is
// speed and predictability rather than ratio: decoding is a straight
// table lookup per code with no bit-level entropy stage, the trained
// table is a couple KB rather than a multi-KB dictionary rebuilt per
// stream, and two runs against the same table always produce the same
// bytes. The cost is a lower ceiling on compression ratio and the need to
// train before the first byte is encoded — there is no adaptive,
// single-shot mode.
//
// Against LZ4, the tradeoff inverts: LZ4 needs no training and is faster
// on data with no shared structure, but a table trained on representative
// samples usually beats it once records share real vocabulary, at the
// cost of that up-front training step and a table to carry around.
//
// # Basic Usage
//
//	// Train on representative data
//	inputs := [][]byte{
//	    []byte(`{"id":123,"name":"Alice"}`),
//	    []byte(`{"id":456,"name":"Bob"}`),
//	}
//	tbl := fsst.Train(inputs)
//
//	// Compress and decompress
//	compressed := tbl.EncodeAll([]byte(`{"id":789,"name":"Charlie"}`))
//	original, err := tbl.DecodeAll(compressed)
//
//	// Or encode/decode into a caller-owned buffer
//	dst := tbl.Encode(nil, []byte(`{"id":789,"name":"Charlie"}`))
//	back, err := tbl.Decode(nil, dst)
//
//	// Serialize the table for reuse elsewhere
//	data, _ := tbl.MarshalBinary()
//	var tbl2 fsst.Table
//	tbl2.UnmarshalBinary(data)
//
// A malformed code stream (truncated escape, or a code with no assigned
// symbol) is reported by Decode as a *MalformedCodeStreamError carrying the
// byte offset where the problem was found; errors.Is against
// ErrMalformedCodeStream matches it.
//
// # Performance Characteristics
//
// Training: O(n x k) where n is sample size, k is the number of generations (5)
// Encoding: O(m) where m is output size
// Decoding: O(m) where m is output size, via direct table lookup
//
// A trained table is typically a few hundred bytes to ~2KB on the wire (see
// Dump) and encodes/decodes at table-lookup speed.
package fsst
