// Package rollinghash implements the rolling k-mer hasher collaborator
// described in spec section 4.1/6: a window of k DNA bases that can be
// advanced by one base, in either direction, in O(1) without rehashing the
// whole window from scratch, plus h strand-invariant hash values derived
// from a single polynomial hash of the window's content.
//
// The polynomial hash treats a k-mer as a base-B number (leftmost base is
// the most-significant digit). Appending a base on the right and
// prepending a base on the left are both O(1): the former via the usual
// Rabin-Karp recurrence, the latter via multiplication by the modular
// inverse of B mod 2^64 (B is odd, so it has one). Tracking both the
// forward-orientation hash and the reverse-complement-orientation hash
// lets every window report a hash pair that is identical regardless of
// which strand it was approached from, which is what makes membership
// queries strand-invariant.
package rollinghash

import "dbgasm/core/kmer"

// B is the rolling hash's polynomial base. Must be odd (so it has a
// multiplicative inverse mod 2^64) and not of a form that makes the 2-bit
// base codes degenerate.
const hashBase uint64 = 0x9E3779B97F4A7C15 | 1

var baseCode [256]uint64

func init() {
	baseCode['A'] = 0
	baseCode['C'] = 1
	baseCode['G'] = 2
	baseCode['T'] = 3
}

// invBase is the multiplicative inverse of hashBase modulo 2^64, computed
// once via Newton's iteration for modular inverses of odd numbers
// (y such that x*y == 1 mod 2^64 converges quadratically from any odd seed).
var invBase = newtonInverse(hashBase)

func newtonInverse(x uint64) uint64 {
	y := x
	for i := 0; i < 6; i++ {
		y = y * (2 - x*y)
	}
	return y
}

func pow64(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

// Window is the rolling-hash state for one valid k-length window: the raw
// bases in the orientation they were last walked in, plus the forward and
// reverse-complement polynomial hash codes needed to derive a neighbouring
// window's hashes in O(1).
//
// Window is a value type; Shift* methods return a new Window rather than
// mutating the receiver, so a Vertex (spec section 3) can simply hold one
// by value.
type Window struct {
	bases     []byte // len == k, walk-orientation (not necessarily canonical)
	fwdCode   uint64
	rcCode    uint64
	pow       uint64 // hashBase^(k-1) mod 2^64
	numHashes int
}

// New builds a Window from scratch for the k bases in seq (len(seq) must
// equal k). Returns ok=false if seq contains any non-ACGT base.
func New(seq []byte, numHashes int) (Window, bool) {
	k := len(seq)
	var fwd, rc uint64
	for i := 0; i < k; i++ {
		b := seq[i]
		if !kmer.IsACGT(b) {
			return Window{}, false
		}
		fwd = fwd*hashBase + baseCode[b]
		// rc digit at position i is complement(seq[k-1-i]); build rc's
		// polynomial left-to-right same as fwd.
		rc = rc*hashBase + complementCode(seq[k-1-i])
	}
	w := Window{
		bases:     append([]byte(nil), seq...),
		fwdCode:   fwd,
		rcCode:    rc,
		pow:       pow64(hashBase, k-1),
		numHashes: numHashes,
	}
	return w, true
}

func complementCode(b byte) uint64 {
	switch b {
	case 'A':
		return baseCode['T']
	case 'C':
		return baseCode['G']
	case 'G':
		return baseCode['C']
	case 'T':
		return baseCode['A']
	default:
		return 0
	}
}

// K returns the window length.
func (w Window) K() int { return len(w.bases) }

// ShiftForward appends next on the right and drops the leftmost base,
// deriving the new hash codes in O(1) from the current ones. Returns
// ok=false (and the receiver unchanged otherwise) if next is not ACGT.
func (w Window) ShiftForward(next byte) (Window, bool) {
	if !kmer.IsACGT(next) {
		return Window{}, false
	}
	k := len(w.bases)
	out := w.bases[0]
	newBases := make([]byte, k)
	copy(newBases, w.bases[1:])
	newBases[k-1] = next

	newFwd := (w.fwdCode-baseCode[out]*w.pow)*hashBase + baseCode[next]
	// rc loses its trailing digit (complement(out)) and gains a new
	// leading digit (complement(next)): a prepend on rcCode.
	newRc := complementCode(next)*w.pow + (w.rcCode-complementCode(out))*invBase

	return Window{bases: newBases, fwdCode: newFwd, rcCode: newRc, pow: w.pow, numHashes: w.numHashes}, true
}

// ShiftBackward prepends prev on the left and drops the rightmost base.
func (w Window) ShiftBackward(prev byte) (Window, bool) {
	if !kmer.IsACGT(prev) {
		return Window{}, false
	}
	k := len(w.bases)
	out := w.bases[k-1]
	newBases := make([]byte, k)
	copy(newBases[1:], w.bases[:k-1])
	newBases[0] = prev

	// fwd loses its trailing digit (out) and gains a new leading digit
	// (prev): a prepend on fwdCode.
	newFwd := baseCode[prev]*w.pow + (w.fwdCode-baseCode[out])*invBase
	newRc := (w.rcCode-complementCode(out)*w.pow)*hashBase + complementCode(prev)

	return Window{bases: newBases, fwdCode: newFwd, rcCode: newRc, pow: w.pow, numHashes: w.numHashes}, true
}

// String returns the window's bases in the orientation they were last
// walked in (not necessarily canonical).
func (w Window) String() string { return string(w.bases) }

// Bytes returns a copy of the window's walk-orientation bases.
func (w Window) Bytes() []byte { return append([]byte(nil), w.bases...) }

// LastBase returns the final base in walk orientation (used when
// appending a vertex's contribution to an assembled sequence).
func (w Window) LastBase() byte { return w.bases[len(w.bases)-1] }

// FirstBase returns the leading base in walk orientation.
func (w Window) FirstBase() byte { return w.bases[0] }

// CanonicalString returns the lexicographically smaller of the window's
// bases and their reverse complement: the k-mer's graph identity.
func (w Window) CanonicalString() string { return kmer.CanonicalString(w.bases) }

// canonicalCode is the strand-invariant base value both orientations of a
// k-mer agree on: the smaller of the forward and reverse-complement
// polynomial codes. It is not the hash of the canonical *string* (that
// would require re-deriving which orientation is canonical on every call);
// it only needs to be a function of the k-mer's identity, not of which
// strand the window was approached from, which min(fwdCode, rcCode)
// already guarantees since rcCode of one orientation equals fwdCode of the
// other.
func (w Window) canonicalCode() uint64 {
	if w.fwdCode < w.rcCode {
		return w.fwdCode
	}
	return w.rcCode
}

// Hashes derives h strand-invariant hash values from the window's single
// canonical code using a splitmix64-style finalizer salted per index (the "one
// hashing" technique: derive k probe positions from a single hash rather
// than computing k independent hash functions).
func (w Window) Hashes() []uint64 {
	out := make([]uint64, w.numHashes)
	base := w.canonicalCode()
	for i := 0; i < w.numHashes; i++ {
		out[i] = finalize(base, i)
	}
	return out
}

// finalizerSalts are XORed into the code before the avalanche, one per
// hash index; indices past the end of the table wrap around to its start.
var finalizerSalts = [...]uint64{
	0xff51afd7ed558ccd,
	0xc4ceb9fe1a85ec53,
	0x2545f4914f6cdd1d,
	0x9e3779b185ebca87,
	0xbf58476d1ce4e5b9,
	0x94d049bb133111eb,
}

func finalize(x uint64, idx int) uint64 {
	salt := finalizerSalts[idx%len(finalizerSalts)]
	// splitmix64-style avalanche, salted per hash index so distinct
	// indices decorrelate even when idx wraps around the salt table.
	x ^= salt + uint64(idx)*0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
