package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dbgasm/internal/filter"
)

// TestProcessReadRealBranchSplitsIntoTwoCandidates builds a solid set with a
// genuine fork downstream of the read (two distinct successors of the
// read's last vertex, each extending far enough to count as a true
// branch), the spec section 8 worked-example shape: a read seeded at a
// branch point should come back as more than one sub-path, each at least
// k bases long.
func TestProcessReadRealBranchSplitsIntoTwoCandidates(t *testing.T) {
	const k, h = 4, 3
	read := "AAACGT"
	// Two branches diverging after the read's last k-mer "ACGT": one
	// extends with a run of A's, the other with a run of T's, each long
	// enough (>= k+1 = minBranchLen) to resolve as a true branch on both
	// sides of the fork.
	branchA := "ACGTAAAAA"
	branchB := "ACGTTTTTT"
	solid := buildSolidSet(t, k, h, append(append(kmersOf(read, k), kmersOf(branchA, k)...), kmersOf(branchB, k)...)...)
	assembled := filter.New(4096, k, h)
	d := New(solid, assembled, k, h)

	out := d.ProcessRead([]byte(read))
	require.True(t, out.Attempted, "a read at a real fork must still be attempted")
	require.GreaterOrEqual(t, len(out.Candidates), 2, "expected the fork to split the read into more than one candidate sub-path")
	for _, c := range out.Candidates {
		require.GreaterOrEqual(t, len(c.Seq), k, "every candidate must be at least k bases long")
	}
}
