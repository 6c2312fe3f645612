// Package graph provides the implicit de Bruijn graph view from spec
// section 4.3. There is no materialized vertex or edge set: a vertex
// exists iff a membership filter reports its hash values present, and an
// edge exists iff both endpoints exist and one is a single-base shift of
// the other. Neighbour enumeration derives each candidate's rolling hash
// in O(1) from the current vertex rather than rehashing a substring.
package graph

import "dbgasm/core/rollinghash"

// bases are tried in a fixed order so neighbour enumeration is
// deterministic given the same filter content.
var bases = [4]byte{'A', 'C', 'G', 'T'}

// View is the graph over a given membership filter. It holds no mutable
// state of its own; the filter (solid set, assembled set, or a caller's
// combination of the two) supplies all vertex existence answers.
type View struct {
	Filter Membership
}

// Membership is the subset of internal/filter.Membership the graph needs,
// declared locally so this package does not import internal/filter and
// create a dependency edge the import-boundary test would need to permit
// in both directions.
type Membership interface {
	Contains(hashes []uint64) bool
}

// New returns a graph view backed by f.
func New(f Membership) View { return View{Filter: f} }

// in reports whether w's hash values are present in the filter.
func (g View) in(w rollinghash.Window) bool { return g.Filter.Contains(w.Hashes()) }

// Successors returns up to 4 windows reachable from u by appending one
// base on the right, canonicalized in the sense that membership is always
// tested via the strand-invariant hash values returned by Window.Hashes.
func (g View) Successors(u rollinghash.Window) []rollinghash.Window {
	var out []rollinghash.Window
	for _, b := range bases {
		v, ok := u.ShiftForward(b)
		if !ok {
			continue
		}
		if g.in(v) {
			out = append(out, v)
		}
	}
	return out
}

// Predecessors is Successors' symmetric counterpart in the reverse
// direction: windows reachable from u by prepending one base on the left.
func (g View) Predecessors(u rollinghash.Window) []rollinghash.Window {
	var out []rollinghash.Window
	for _, b := range bases {
		v, ok := u.ShiftBackward(b)
		if !ok {
			continue
		}
		if g.in(v) {
			out = append(out, v)
		}
	}
	return out
}

