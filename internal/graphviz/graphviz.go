// Package graphviz implements the supplemented GraphViz dump mode: for
// each input read, trim to the longest contiguous run of solid k-mers
// (spec section 4.6), then breadth-first search the implicit de Bruijn
// graph from that trimmed read's forward and reverse-complement start
// vertices, emitting a "digraph g { ... }" block with one vertex line per
// first-discovered vertex and one edge line per traversed edge.
//
// Ported from original_source's GraphvizBFSVisitor + outputGraph +
// trimSeq (BloomDBG/bloom-dbg.h): a single discovered-vertex set is
// shared across every BFS call in a run (both orientations of every
// read), exactly as the original reuses one DefaultColorMap across the
// whole outputGraph loop, so a k-mer reachable from an earlier read is
// never re-declared.
package graphviz

import (
	"fmt"
	"io"

	"dbgasm/core/kmer"
	"dbgasm/core/rollinghash"
	"dbgasm/internal/assemblepath"
	"dbgasm/internal/graph"
)

// Membership is the subset of internal/filter.Filter this package needs.
type Membership interface {
	Contains(hashes []uint64) bool
}

// Dump writes one GraphViz digraph block to w, covering the implicit
// graph reachable from every read in reads (after trimming each to its
// longest solid run), in both orientations. k and numHashes must match
// the filter f was built with.
func Dump(w io.Writer, reads [][]byte, f Membership, k, numHashes int) error {
	g := graph.New(f)
	visited := make(map[string]struct{})

	if _, err := fmt.Fprintln(w, "digraph g {"); err != nil {
		return err
	}
	for _, seq := range reads {
		trimmed := assemblepath.Trim(seq, f, k, numHashes)
		if len(trimmed) < k {
			continue
		}
		if err := bfsFrom(w, g, trimmed, k, numHashes, visited); err != nil {
			return err
		}
		if err := bfsFrom(w, g, kmer.RevComp(trimmed), k, numHashes, visited); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// bfsFrom runs one breadth-first traversal starting at seq's first
// k-window, writing a vertex line the first time each k-mer is
// discovered and an edge line for every edge examined. internal/graph's
// Successors is already the implicit graph's forward adjacency, so no
// separate edge-existence check is needed beyond what Successors does.
func bfsFrom(w io.Writer, g graph.View, seq []byte, k, numHashes int, visited map[string]struct{}) error {
	start, ok := rollinghash.New(seq[:k], numHashes)
	if !ok {
		return nil
	}
	key := start.CanonicalString()
	if _, seen := visited[key]; seen {
		return nil
	}
	visited[key] = struct{}{}
	if _, err := fmt.Fprintf(w, "\t%s;\n", key); err != nil {
		return err
	}

	queue := []rollinghash.Window{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Successors(u) {
			if _, err := fmt.Fprintf(w, "\t%s -> %s;\n", u.CanonicalString(), v.CanonicalString()); err != nil {
				return err
			}
			vk := v.CanonicalString()
			if _, seen := visited[vk]; seen {
				continue
			}
			visited[vk] = struct{}{}
			if _, err := fmt.Fprintf(w, "\t%s;\n", vk); err != nil {
				return err
			}
			queue = append(queue, v)
		}
	}
	return nil
}
