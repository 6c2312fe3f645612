package rollinghash

import "dbgasm/core/kmer"

// Record is one position of a rolling scan over a sequence: the window
// itself, its start offset in the original sequence, and whether this
// record's position follows directly on from the previous one (Gap is true
// when one or more non-ACGT bases were skipped since the previous record,
// matching spec section 4.1's "consumers can detect the gap" requirement).
// The first record of a scan is never marked as a gap, even when non-ACGT
// bases precede it.
type Record struct {
	Pos    int
	Window Window
	Gap    bool
}

// Iterator produces the lazy finite sequence of valid k-windows over a
// sequence, in order, skipping any window that contains a non-ACGT base.
type Iterator struct {
	seq       []byte
	k         int
	numHashes int
	next      int // index in seq to resume scanning from
	cur       Window
	curPos    int
	have      bool
	sawAny    bool
}

// NewIterator returns an Iterator over seq for k-length windows with
// numHashes hash values each.
func NewIterator(seq []byte, k, numHashes int) *Iterator {
	return &Iterator{seq: seq, k: k, numHashes: numHashes}
}

// Next returns the next valid window, or ok=false once the sequence is
// exhausted.
func (it *Iterator) Next() (Record, bool) {
	if it.have {
		nextPos := it.curPos + 1
		endIdx := nextPos + it.k - 1
		if endIdx < len(it.seq) && kmer.IsACGT(it.seq[endIdx]) {
			w, ok := it.cur.ShiftForward(it.seq[endIdx])
			if ok {
				it.cur = w
				it.curPos = nextPos
				it.next = endIdx + 1
				it.sawAny = true
				return Record{Pos: it.curPos, Window: it.cur, Gap: false}, true
			}
		}
		it.have = false
	}
	return it.scanFromScratch()
}

// scanFromScratch resumes scanning at it.next for the next run of k
// consecutive ACGT bases. Any record it returns necessarily follows a
// break in contiguity (either the very start of the sequence, in which
// case there is nothing to have gapped from, or a non-ACGT base that
// ended the previous run), so Gap is set whenever a record has already
// been emitted before this one.
func (it *Iterator) scanFromScratch() (Record, bool) {
	for it.next+it.k <= len(it.seq) {
		start := it.next
		w, ok := New(it.seq[start:start+it.k], it.numHashes)
		if !ok {
			bad := start
			for bad < len(it.seq) && kmer.IsACGT(it.seq[bad]) {
				bad++
			}
			it.next = bad + 1
			continue
		}
		it.cur = w
		it.curPos = start
		it.have = true
		it.next = start + it.k
		gap := it.sawAny
		it.sawAny = true
		return Record{Pos: start, Window: w, Gap: gap}, true
	}
	return Record{}, false
}
