// Package filterbuild implements the supplemented "count" subcommand: a
// generator for the solid-set filter spec section 6 treats as externally
// supplied. It counts exact k-mer multiplicities in a plain Go map (a
// membership filter cannot give exact counts back out) and materializes
// every k-mer at or above a minimum count into an internal/filter.Filter.
package filterbuild

import (
	"context"

	"dbgasm/core/fasta"
	"dbgasm/core/rollinghash"
	"dbgasm/internal/apperr"
	"dbgasm/internal/filter"
)

// entry is one canonical k-mer's tally plus the hash values needed to
// insert it into a filter without re-hashing at Build time.
type entry struct {
	count  uint64
	hashes []uint64
}

// Counts is the accumulated per-k-mer tally from one or more FASTA files.
type Counts struct {
	k, numHashes int
	entries      map[string]entry
}

// Count streams every record in files through core/rollinghash and tallies
// each canonical k-mer's occurrences. Runs of non-ACGT bases simply end one
// window and start the next, exactly as core/rollinghash.Iterator already
// does for the assembler core — counting input reads has no analogue of
// section 4.5's "gap is a contract violation" rule, since a raw read is not
// a candidate contig.
func Count(ctx context.Context, files []string, k, numHashes int) (*Counts, error) {
	c := &Counts{k: k, numHashes: numHashes, entries: make(map[string]entry)}
	for _, path := range files {
		recs, err := fasta.StreamChanCtxPath(ctx, path)
		if err != nil {
			return nil, apperr.New(apperr.InputFormat, err)
		}
		for rec := range recs {
			select {
			case <-ctx.Done():
				return nil, apperr.New(apperr.Io, ctx.Err())
			default:
			}
			it := rollinghash.NewIterator(rec.Seq, k, numHashes)
			for {
				r, ok := it.Next()
				if !ok {
					break
				}
				key := r.Window.CanonicalString()
				e := c.entries[key]
				e.count++
				e.hashes = r.Window.Hashes()
				c.entries[key] = e
			}
		}
	}
	return c, nil
}

// Distinct returns the number of distinct canonical k-mers counted.
func (c *Counts) Distinct() int { return len(c.entries) }

// Build materializes a filter.Filter with capacity numBits, containing
// every k-mer counted at least minCount times.
func (c *Counts) Build(numBits uint64, minCount uint64) *filter.Filter {
	f := filter.New(numBits, c.k, c.numHashes)
	for _, e := range c.entries {
		if e.count >= minCount {
			f.Insert(e.hashes)
		}
	}
	return f
}
