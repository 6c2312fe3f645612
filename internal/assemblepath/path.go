// Package assemblepath implements the Path type and its operations from
// spec sections 3, 4.4, and 4.5 step 5: converting a DNA sequence to and
// from a path of vertices, extending a path's terminal sub-paths with the
// false-positive chop, and splitting a path at internal branch points.
package assemblepath

import (
	"bytes"
	"fmt"

	"dbgasm/core/rollinghash"
	"dbgasm/internal/apperr"
	"dbgasm/internal/branch"
)

// Path is an ordered sequence of vertices; consecutive vertices overlap by
// k-1 bases in the walk orientation each vertex was produced in. A Path
// always has length >= 1.
type Path []rollinghash.Window

// SeqToPath converts a DNA sequence into the path of its successive
// k-windows. seq must be entirely ACGT and at least k bases long; a
// shorter sequence or any non-ACGT base anywhere in seq is reported as an
// error rather than silently skipped, which lets internal/assemble use this
// call as its length and bad-base check before the solidity gate.
func SeqToPath(seq []byte, k, numHashes int) (Path, error) {
	if len(seq) < k {
		return nil, fmt.Errorf("assemblepath: sequence length %d shorter than k=%d", len(seq), k)
	}
	it := rollinghash.NewIterator(seq, k, numHashes)
	var p Path
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		if rec.Gap {
			return nil, fmt.Errorf("assemblepath: sequence contains a non-ACGT base at or before position %d", rec.Pos)
		}
		p = append(p, rec.Window)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("assemblepath: sequence produced no valid k-windows")
	}
	if len(p) != len(seq)-k+1 {
		return nil, fmt.Errorf("assemblepath: sequence contains a non-ACGT base")
	}
	return p, nil
}

// PathToSeq converts a path back to its DNA sequence, in the walk
// orientation of its vertices: the first vertex contributes all k of its
// bases, every subsequent vertex contributes only its last base. Every
// consecutive pair of vertices must overlap by k-1 bases (the walk-order
// adjacency every path-building operation in this package already
// maintains); a gap between successive vertices is an invariant breach,
// per spec section 7's Contract kind, not a recoverable condition, so it
// is raised rather than returned.
func PathToSeq(p Path) []byte {
	if len(p) == 0 {
		return nil
	}
	out := make([]byte, 0, p[0].K()+len(p)-1)
	out = append(out, p[0].Bytes()...)
	for i, v := range p[1:] {
		prev := p[i]
		if !bytes.Equal(prev.Bytes()[1:], v.Bytes()[:v.K()-1]) {
			apperr.Raise("assemblepath: path conversion invoked on a path with a gap between vertices %d and %d", i, i+1)
		}
		out = append(out, v.LastBase())
	}
	return out
}

// Graph is the subset of internal/graph.View needed here, declared
// locally so this package depends only on the interfaces it uses.
type Graph interface {
	Successors(u rollinghash.Window) []rollinghash.Window
	Predecessors(u rollinghash.Window) []rollinghash.Window
}

// VisitedSet tracks vertex identity (by canonical k-mer string) across an
// extension or split pass.
type VisitedSet map[string]struct{}

// NewVisitedSet returns a VisitedSet pre-populated with every vertex
// already in p, matching spec section 4.4's "visited set (initially
// containing all vertices already in p)".
func NewVisitedSet(p Path) VisitedSet {
	v := make(VisitedSet, len(p))
	for _, w := range p {
		v[w.CanonicalString()] = struct{}{}
	}
	return v
}

func (v VisitedSet) has(w rollinghash.Window) bool {
	_, ok := v[w.CanonicalString()]
	return ok
}

func (v VisitedSet) add(w rollinghash.Window) {
	v[w.CanonicalString()] = struct{}{}
}

// Chop removes min(len(p)-1, l) vertices from the end being extended,
// before Extend is called, per spec section 4.4's dual-ended extension
// with false-positive chop: the read's own endpoint might sit on a filter
// false-positive tip, which would otherwise make Extend stop immediately.
func Chop(p Path, d branch.Direction, l int) Path {
	n := len(p) - 1
	if n > l {
		n = l
	}
	if n <= 0 {
		return p
	}
	if d == branch.Forward {
		return p[:len(p)-n]
	}
	return p[n:]
}

// Extend grows p in direction d until a dead end, a real branch (>= 2 true
// branches), or a cycle is hit, per spec section 4.4 steps 1-5. visited is
// mutated in place so a caller extending the same path in both directions
// shares cycle detection across both extensions.
func Extend(p Path, g Graph, d branch.Direction, visited VisitedSet, l int) Path {
	for {
		var u rollinghash.Window
		if d == branch.Forward {
			u = p[len(p)-1]
		} else {
			u = p[0]
		}
		t := branch.TrueBranches(g, u, d, l)
		if len(t) == 0 {
			return p
		}
		if len(t) >= 2 {
			return p
		}
		w := t[0]
		if visited.has(w) {
			return p
		}
		visited.add(w)
		if d == branch.Forward {
			p = append(p, w)
		} else {
			next := make(Path, len(p)+1)
			next[0] = w
			copy(next[1:], p)
			p = next
		}
	}
}

// ExtendWithChop performs the chop described by Chop and then Extend in
// direction d, matching original_source's extendPath: chop first to avoid
// terminating immediately on the read's own potential false-positive tip.
func ExtendWithChop(p Path, g Graph, d branch.Direction, visited VisitedSet, l int) Path {
	return Extend(Chop(p, d, l), g, d, visited, l)
}

// TrimMembership is the filter subset Trim needs, declared locally so
// this package's graphviz-facing entry point depends only on Contains.
type TrimMembership interface {
	Contains(hashes []uint64) bool
}

// Trim returns the longest contiguous run of seq covered by k-windows that
// are (a) members of f and (b) adjacent to the previous accepted window
// with no skipped gap, per spec section 4.6. Ties on maximum run length
// are broken toward the earliest run, since a strictly-greater comparison
// against the running best only ever replaces it on a longer match. If seq
// is shorter than k or has no matching run at all, the result is nil.
func Trim(seq []byte, f TrimMembership, k, numHashes int) []byte {
	if len(seq) < k {
		return nil
	}
	const unset = -1
	prevPos := unset
	matchStart := unset
	matchLen := 0
	bestStart := unset
	bestLen := 0

	it := rollinghash.NewIterator(seq, k, numHashes)
	for {
		rec, ok := it.Next()
		if !ok {
			break
		}
		inFilter := f.Contains(rec.Window.Hashes())
		if !inFilter || (prevPos != unset && rec.Pos-prevPos > 1) {
			if matchStart != unset && matchLen > bestLen {
				bestLen = matchLen
				bestStart = matchStart
			}
			matchStart = unset
			matchLen = 0
		}
		if inFilter {
			if matchStart == unset {
				matchStart = rec.Pos
			}
			matchLen++
		}
		prevPos = rec.Pos
	}
	if matchStart != unset && matchLen > bestLen {
		bestLen = matchLen
		bestStart = matchStart
	}
	if bestLen == 0 {
		return nil
	}
	return seq[bestStart : bestStart+bestLen+k-1]
}

// SplitAtBranches walks p and breaks it into sub-paths at every vertex
// whose true in-degree or out-degree (threshold l) exceeds 1, duplicating
// that vertex across the boundary (spec section 4.5 step 5). A trailing
// sub-path of length <= 1 is dropped; sub-paths closed mid-walk are always
// kept. A closed sub-path spans the vertex that opened it through the
// branching vertex that closed it, so it holds a single vertex only when
// the branching vertex is the first vertex of p.
func SplitAtBranches(p Path, g Graph, l int) []Path {
	var result []Path
	var current Path
	for _, v := range p {
		current = append(current, v)
		inDegree := len(branch.TrueBranches(g, v, branch.Reverse, l))
		outDegree := len(branch.TrueBranches(g, v, branch.Forward, l))
		if inDegree > 1 || outDegree > 1 {
			result = append(result, current)
			current = Path{v}
		}
	}
	if len(current) > 1 {
		result = append(result, current)
	}
	return result
}
