// Package assemble implements the worker-local portion of spec section
// 4.5's read-seeded assembly driver (steps 1-6): the three skip gates,
// conversion to a path, splitting at internal branches, and extending the
// terminal sub-paths. It is ported from original_source's assemble() loop
// body in BloomDBG/bloom-dbg.h, with the emission step (4.5 step 7) and
// the two counter bumps (steps 8-9) left to internal/pipeline, since those
// touch shared state and need the critical sections spec section 5
// describes — this package never suspends and holds no lock.
package assemble

import (
	"dbgasm/internal/assemblepath"
	"dbgasm/internal/branch"
	"dbgasm/internal/graph"
)

// Membership is the subset of internal/filter.Membership this package
// needs, declared locally per the pattern used throughout this module's
// graph-adjacent packages.
type Membership interface {
	Contains(hashes []uint64) bool
}

// Driver holds the two filters and the k-mer parameters needed to process
// one read at a time. A Driver is safe for concurrent use by multiple
// workers: ProcessRead only reads from Solid and Assembled, never writes
// either, so no locking is required here.
type Driver struct {
	Solid     Membership
	Assembled Membership
	K         int
	NumHashes int

	// minBranchLen is the true-branch threshold L, fixed at k+1 per spec
	// section 4.5's closing line.
	minBranchLen int
	graph        graph.View
}

// New returns a Driver over the given solid (read-only) and assembled
// (coverage-checked here, mutated by the caller's emit section) filters.
func New(solid, assembled Membership, k, numHashes int) *Driver {
	return &Driver{
		Solid:        solid,
		Assembled:    assembled,
		K:            k,
		NumHashes:    numHashes,
		minBranchLen: k + 1,
		graph:        graph.New(solid),
	}
}

// Candidate is one extended sub-path's sequence, ready for the emit
// critical section's recheck-then-insert-then-write.
type Candidate struct {
	Seq []byte
}

// Outcome is the result of running the gate/convert/split/extend sequence
// on a single read.
type Outcome struct {
	// Candidates is zero or more sequences to attempt emitting. It is
	// empty exactly when a gate rejected the read: a gate-passing read
	// always yields at least one candidate, since an empty split result
	// falls back to the whole path.
	Candidates []Candidate

	// Attempted is true iff all three gates (length, solidity, coverage)
	// passed, i.e. the read reached step 4. Spec section 4.5 step 8 bumps
	// reads_extended exactly when Attempted is true, regardless of how
	// many Candidates resulted.
	Attempted bool
}

// ProcessRead runs spec section 4.5 steps 1-6 on seq, which must already be
// upper-cased by the FASTA layer. It performs no I/O and touches no shared
// state; the caller is responsible for steps 7-9.
func (d *Driver) ProcessRead(seq []byte) Outcome {
	// Step 1: length gate.
	if len(seq) < d.K {
		return Outcome{}
	}

	// Step 4 happens before step 2/3 here only in the sense that building
	// the path is how we walk every k-mer of seq; SeqToPath itself
	// rejects non-ACGT bases and too-short input, which folds spec step
	// 2's "a single bad base invalidates the read" in with the length
	// gate's failure mode.
	p, err := assemblepath.SeqToPath(seq, d.K, d.NumHashes)
	if err != nil {
		return Outcome{}
	}

	// Step 2: solidity gate. Every k-mer of the read must be a member of
	// the solid set.
	for _, v := range p {
		if !d.Solid.Contains(v.Hashes()) {
			return Outcome{}
		}
	}

	// Step 3: coverage gate. Skip only if every k-mer is already
	// assembled; a partial overlap is caught later by the emit-time
	// recheck (spec section 9's documented asymmetry).
	if allIn(p, d.Assembled) {
		return Outcome{}
	}

	// Step 5: split at internal branches.
	subpaths := assemblepath.SplitAtBranches(p, d.graph, d.minBranchLen)
	if len(subpaths) == 0 {
		// No internal branch ever closed a sub-path, so splitting never
		// ran past a single trailing fragment of length <= 1 -- that
		// fragment is the whole, unbranched path, and must not be
		// silently dropped.
		subpaths = []assemblepath.Path{p}
	}

	// Step 6: extend the terminal sub-paths.
	visited := assemblepath.NewVisitedSet(p)
	extended := make([]assemblepath.Path, len(subpaths))
	copy(extended, subpaths)
	if len(extended) == 1 {
		// Matches original_source's extendPath wrapper: extend right
		// first, then extend left from the (possibly already
		// right-extended) result -- the two chops are sequential, not
		// independent, so order matters.
		extended[0] = assemblepath.ExtendWithChop(extended[0], d.graph, branch.Forward, visited, d.minBranchLen)
		extended[0] = assemblepath.ExtendWithChop(extended[0], d.graph, branch.Reverse, visited, d.minBranchLen)
	} else {
		first, last := 0, len(extended)-1
		extended[first] = assemblepath.ExtendWithChop(extended[first], d.graph, branch.Reverse, visited, d.minBranchLen)
		extended[last] = assemblepath.ExtendWithChop(extended[last], d.graph, branch.Forward, visited, d.minBranchLen)
	}

	candidates := make([]Candidate, len(extended))
	for i, sp := range extended {
		candidates[i] = Candidate{Seq: assemblepath.PathToSeq(sp)}
	}
	return Outcome{Candidates: candidates, Attempted: true}
}

func allIn(p assemblepath.Path, f Membership) bool {
	for _, v := range p {
		if !f.Contains(v.Hashes()) {
			return false
		}
	}
	return true
}
