// Package kmer holds the canonical k-mer representation shared by the
// rolling hasher, the implicit graph, and the assembly path types.
package kmer

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
}

// RevComp returns the reverse complement of an ACGT-only sequence.
func RevComp(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement[seq[n-1-i]]
	}
	return out
}

// IsACGT reports whether b is one of the four canonical bases (uppercase).
func IsACGT(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// Canonical returns the lexicographically smaller of seq and its reverse
// complement. The caller owns seq; the returned slice may alias it.
func Canonical(seq []byte) []byte {
	rc := RevComp(seq)
	if less(rc, seq) {
		return rc
	}
	return seq
}

// CanonicalString is the string form of Canonical, for use as a map key or
// in emitted output.
func CanonicalString(seq []byte) string {
	return string(Canonical(seq))
}

func less(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
