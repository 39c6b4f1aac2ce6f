package fsst

import (
	"bytes"
	"container/heap"
	"unsafe"
)

// Training tuning constants. defaultGenerations matches the published FSST
// design (5 rounds of refinement); the sampling constants bound how much
// of a large corpus a single training run walks.
const (
	defaultGenerations = 5

	sampleTarget = 1 << 14 // 16KB
	sampleMaxSz  = 2 * sampleTarget
	sampleChunk  = 384
)

// Train builds a frozen symbol table from a sample of byte strings, using
// the default number of training generations (5). An empty sample yields a
// table containing no symbols; every byte then escapes on encode.
func Train(samples [][]byte) *Table {
	return TrainWithGenerations(samples, defaultGenerations)
}

// TrainWithGenerations is Train with an explicit generation count. The
// number of generations trades training time against compression ratio;
// Train defaults to 5 but exposes it here as a knob for callers who want
// to spend more or less time refining the table.
func TrainWithGenerations(samples [][]byte, generations int) *Table {
	if generations < 1 {
		generations = 1
	}

	sample := makeSample(samples)
	table := seedTable(sample)
	if len(sample) == 0 {
		return table
	}

	for g := 0; g < generations; g++ {
		counts := &counters{}
		tokenizeAndCount(table, counts, sample)
		table = buildNextTable(table, counts)
	}
	return table
}

// TrainStrings converts inputs to [][]byte without copying and calls Train.
func TrainStrings(inputs []string) *Table {
	bs := make([][]byte, len(inputs))
	for i := range inputs {
		bs[i] = unsafe.Slice(unsafe.StringData(inputs[i]), len(inputs[i]))
	}
	return Train(bs)
}

// observedByte pairs a byte value with its occurrence count in the sample,
// used by seedTable to pick which 255 of a possible 256 distinct byte
// values get a length-1 symbol.
type observedByte struct {
	b byte
	n int
}

// seedTable builds the generation-0 table: a length-1 symbol for every byte
// value observed in the sample. If the sample contains all 256 possible
// byte values, the least frequent one is left uncovered and the encoder
// escapes it instead — the table can hold at most 255 symbols because one
// code is reserved for the escape.
func seedTable(sample [][]byte) *Table {
	var freq [256]int
	for _, s := range sample {
		for _, b := range s {
			freq[b]++
		}
	}

	var observed []observedByte
	for b, n := range freq {
		if n > 0 {
			observed = append(observed, observedByte{byte(b), n})
		}
	}

	if len(observed) > maxSymbols {
		sortByFreqDesc(observed)
		observed = observed[:maxSymbols]
	}

	t := newTable()
	for _, ob := range observed {
		t.addSymbol(newSymbolFromByte(ob.b, 0))
	}
	return t
}

// sortByFreqDesc is a small insertion sort; seedTable only ever calls it on
// at most 256 elements once per training run.
func sortByFreqDesc(obs []observedByte) {
	for i := 1; i < len(obs); i++ {
		for j := i; j > 0 && obs[j].n > obs[j-1].n; j-- {
			obs[j], obs[j-1] = obs[j-1], obs[j]
		}
	}
}

// tokenizeAndCount walks the sample as the encoder would with the current
// table, incrementing single and adjacent-pair counters for every emitted
// code. A byte the current table cannot match (one left out of the seed
// because the sample holds all 256 byte values, or one whose length-1
// symbol an earlier generation dropped) contributes no count and resets
// the pair-tracking state, since it has no code to pair with.
func tokenizeAndCount(t *Table, c *counters, sample [][]byte) {
	for _, s := range sample {
		if len(s) == 0 {
			continue
		}
		pos := 0
		prevCode := -1
		for pos < len(s) {
			code, length := t.longestMatch(s, pos)
			if length == 0 {
				pos++
				prevCode = -1
				continue
			}
			c.incSingle(uint32(code))
			if prevCode >= 0 {
				c.incPair(uint32(prevCode), uint32(code))
			}
			prevCode = int(code)
			pos += length
		}
	}
}

// candidate is a proposed symbol for the next generation's table, with its
// accumulated gain (frequency x length, summed across duplicate payloads).
type candidate struct {
	sym  symbol
	gain uint64
}

// buildNextTable proposes candidates from the previous generation's table
// and counts, then keeps the top <=255 by gain to form the next table.
//
// Candidates: every current symbol is a self-retention candidate (gain =
// s1[code] x length); every pair (c1, c2) with a nonzero count yields a
// merged, 8-byte-truncated candidate (gain = s2[c1][c2] x length). Two
// candidates with the same byte payload are collapsed, summing frequency
// (equivalently, summing gain, since length is fixed per distinct payload).
func buildNextTable(t *Table, c *counters) *Table {
	candidates := make(map[string]*candidate)

	add := func(sym symbol, freq uint64) {
		if freq == 0 {
			return
		}
		gain := freq * uint64(sym.length())
		key := string(sym.bytes())
		if existing, ok := candidates[key]; ok {
			existing.gain += gain
		} else {
			candidates[key] = &candidate{sym: sym, gain: gain}
		}
	}

	for code := 0; code < int(t.nSymbols); code++ {
		add(t.symbols[code], uint64(c.s1[code]))
	}
	for _, p := range c.pairs {
		code1, code2 := p[0], p[1]
		merged := fsstConcat(t.symbols[code1], t.symbols[code2])
		add(merged, uint64(c.s2[code1][code2]))
	}

	winners := selectTopCandidates(candidates, maxSymbols)

	next := newTable()
	for _, cand := range winners {
		next.addSymbol(cand.sym)
	}
	return next
}

// candWorse reports whether a should be evicted before b when trimming
// candidates down to maxSymbols: higher gain wins; ties broken by longer
// payload length, then by the lexicographically earlier payload.
func candWorse(a, b *candidate) bool {
	if a.gain != b.gain {
		return a.gain < b.gain
	}
	if a.sym.length() != b.sym.length() {
		return a.sym.length() < b.sym.length()
	}
	return bytes.Compare(a.sym.bytes(), b.sym.bytes()) > 0
}

// candHeap is a min-heap over *candidate ordered by candWorse, so its root
// is always the current worst-ranked candidate retained so far.
type candHeap []*candidate

func (h candHeap) Len() int           { return len(h) }
func (h candHeap) Less(i, j int) bool { return candWorse(h[i], h[j]) }
func (h candHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candHeap) Push(x any)        { *h = append(*h, x.(*candidate)) }
func (h *candHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// selectTopCandidates keeps the top-k candidates by gain, using candWorse's
// tie-break order, via a bounded min-heap — O(n log k) selection instead of
// sorting every candidate.
func selectTopCandidates(candidates map[string]*candidate, k int) []*candidate {
	h := make(candHeap, 0, k+1)
	heap.Init(&h)

	for _, cand := range candidates {
		if len(h) < k {
			heap.Push(&h, cand)
		} else if candWorse(h[0], cand) {
			heap.Pop(&h)
			heap.Push(&h, cand)
		}
	}

	list := make([]*candidate, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		list[i] = heap.Pop(&h).(*candidate)
	}
	return list
}

// makeSample assembles a bounded, deterministic sample from inputs: if the
// corpus is already small, it is used as-is; otherwise it is swept
// round-robin in sampleChunk-sized slices, one slice per input per pass,
// advancing each input's own cursor between passes so a second pass covers
// fresh bytes instead of repeating the first. The sweep stops once about
// sampleTarget bytes have been taken, so when a single pass over the inputs
// exceeds that, the inputs late in the list are not sampled at all.
func makeSample(inputs [][]byte) [][]byte {
	var total int
	for _, in := range inputs {
		total += len(in)
	}
	if total <= sampleTarget {
		return inputs
	}

	sample := make([][]byte, 0, len(inputs))
	cursor := make([]int, len(inputs))
	pos := 0

	for pos < sampleTarget {
		progressed := false
		for i, in := range inputs {
			if cursor[i] >= len(in) {
				continue
			}
			n := min(len(in)-cursor[i], sampleChunk)
			if pos+n > sampleMaxSz {
				n = sampleMaxSz - pos
			}
			if n <= 0 {
				break
			}
			sample = append(sample, in[cursor[i]:cursor[i]+n])
			cursor[i] += n
			pos += n
			progressed = true

			if pos >= sampleTarget || pos >= sampleMaxSz {
				break
			}
		}
		if !progressed {
			break
		}
	}
	return sample
}
