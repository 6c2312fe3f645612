// Package branch implements the true-branch predicate from spec section
// 4.4: given a vertex and a direction, decide which of its neighbours are
// the entry point of a real path of length at least L, as opposed to a
// short dead-end tip caused by a single filter false positive.
package branch

import "dbgasm/core/rollinghash"

// Graph is the subset of internal/graph.View that the predicate needs,
// declared locally so this package does not import internal/graph.
type Graph interface {
	Successors(u rollinghash.Window) []rollinghash.Window
	Predecessors(u rollinghash.Window) []rollinghash.Window
}

// Direction selects which neighbours are followed: Forward uses
// Successors, Reverse uses Predecessors.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func neighbors(g Graph, u rollinghash.Window, d Direction) []rollinghash.Window {
	if d == Forward {
		return g.Successors(u)
	}
	return g.Predecessors(u)
}

// TrueBranches returns the subset of u's d-neighbours that are "true": the
// entry point of a path of length at least L in direction d. A neighbour
// that fails this check is presumed a filter false-positive tip and
// excluded. Cycles (revisiting a vertex already seen during this probe)
// count as success, since an infinite/looping region is never a short
// dead end.
func TrueBranches(g Graph, u rollinghash.Window, d Direction, l int) []rollinghash.Window {
	all := neighbors(g, u, d)
	if len(all) == 0 {
		return nil
	}
	var out []rollinghash.Window
	for _, v := range all {
		if isTrue(g, v, d, l-1) {
			out = append(out, v)
		}
	}
	return out
}

// isTrue reports whether a path of at least remaining further steps
// exists starting at v in direction d, via bounded depth-first search.
// remaining == 0 means v itself already satisfies the length requirement
// (v is the entry point the caller already counted as step 1 of L).
func isTrue(g Graph, v rollinghash.Window, d Direction, remaining int) bool {
	if remaining <= 0 {
		return true
	}
	seen := map[string]struct{}{v.CanonicalString(): {}}
	return dfs(g, v, d, remaining, seen)
}

func dfs(g Graph, u rollinghash.Window, d Direction, remaining int, seen map[string]struct{}) bool {
	if remaining <= 0 {
		return true
	}
	for _, v := range neighbors(g, u, d) {
		key := v.CanonicalString()
		if _, visited := seen[key]; visited {
			// A cycle reachable within the probe counts as a real,
			// non-short branch.
			return true
		}
		seen[key] = struct{}{}
		if dfs(g, v, d, remaining-1, seen) {
			return true
		}
		delete(seen, key)
	}
	return false
}
