// Package pipeline implements the concurrency shape from spec section 5:
// a worker pool pulling FASTA records under a serialized input section,
// running the per-read gate/convert/split/extend sequence worker-local,
// then emitting candidate contigs under a single serialized output
// section that performs the recheck-then-insert-then-write atomically.
//
// This is adapted from KPU-AGC-ipcr/internal/pipeline/pipeline.go's shape:
// a jobs channel feeding a worker sync.WaitGroup, a results channel drained
// by a single collector goroutine. The collector there deduplicated
// cross-chunk primer hits with a seen map; here it plays the role of spec
// section 5's output/emit critical section, since a single goroutine
// draining one channel is trivially serialized without an explicit mutex.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dbgasm/core/fasta"
	"dbgasm/core/rollinghash"
	"dbgasm/internal/assemble"
	"dbgasm/internal/metrics"
)

// Driver is the subset of internal/assemble.Driver this package needs,
// declared locally so a fake driver can satisfy it in tests without
// building a real pair of filters. internal/assemble.Driver satisfies
// this directly.
type Driver interface {
	ProcessRead(seq []byte) assemble.Outcome
}

// AssembledSet is the mutable shared filter guarded by the emit critical
// section: read for the recheck, written for the insert.
type AssembledSet interface {
	Contains(hashes []uint64) bool
	Insert(hashes []uint64)
}

// Writer is the output collaborator; core/fasta.Writer satisfies this.
type Writer interface {
	WriteContig(id, sourceReadID string, seq []byte) error
}

// Config configures one assembly run's worker pool.
type Config struct {
	Threads   int
	K         int
	NumHashes int
	Verbose   bool
	// ProgressStep is the reads_processed interval at which a progress
	// line is logged, matching original_source's progressStep = 1000.
	ProgressStep uint64
}

// job is one FASTA record pulled from the shared input.
type job struct {
	Record fasta.Record
}

// result is what a worker hands to the collector for one processed read.
type result struct {
	ReadID     string
	Candidates []assemble.Candidate
	Attempted  bool
}

// Run streams every record in seqFiles through driver's worker pool and
// writes emitted contigs to w, per spec section 4.5 and section 5. It
// blocks until every input file is exhausted and every worker has
// finished, returning the first error encountered (an I/O or input-format
// failure; per-read skip conditions are never errors).
func Run(ctx context.Context, cfg Config, seqFiles []string, driver Driver, assembled AssembledSet, w Writer, counters *metrics.Counters, logger *slog.Logger) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	progressStep := cfg.ProgressStep
	if progressStep == 0 {
		progressStep = 1000
	}

	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for i := 0; i < cfg.Threads; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				out := driver.ProcessRead(j.Record.Seq)
				results <- result{
					ReadID:     j.Record.ID,
					Candidates: out.Candidates,
					Attempted:  out.Attempted,
				}
			}
		}()
	}

	var collectErr error
	cdone := make(chan struct{})
	go func() {
		defer close(cdone)
		nextID := 0
		for r := range results {
			// Output/emit section: this goroutine is the only reader of
			// results, so the recheck-then-insert-then-write sequence
			// below is already serialized without an explicit mutex.
			for _, c := range r.Candidates {
				already, err := allKmersPresent(c.Seq, assembled, cfg.K, cfg.NumHashes)
				if err != nil {
					if collectErr == nil {
						collectErr = err
					}
					continue
				}
				if already {
					continue
				}
				if err := insertKmers(c.Seq, assembled, cfg.K, cfg.NumHashes); err != nil {
					if collectErr == nil {
						collectErr = err
					}
					continue
				}
				if err := w.WriteContig(fmt.Sprintf("%d", nextID), r.ReadID, c.Seq); err != nil {
					if collectErr == nil {
						collectErr = err
					}
					continue
				}
				nextID++
				counters.BasesAssembled.Add(uint64(len(c.Seq)))
				counters.ContigsEmitted.Add(1)
			}
			if r.Attempted {
				counters.ReadsExtended.Add(1)
			}
			processed := counters.ReadsProcessed.Add(1)

			if cfg.Verbose && processed%progressStep == 0 {
				// Progress-line section: spec section 5 calls for
				// serialized writes to the diagnostic stream. This
				// collector is the only goroutine that ever logs a
				// progress line during a run, so that serialization is
				// free -- no separate mutex needed.
				metrics.LogProgress(logger, counters.Load())
			}
		}
	}()

	// Input section: this feed loop is the sole reader of each file's
	// record stream and the sole sender on jobs, so record pulls are
	// already serialized.
	var feedErr error
feed:
	for _, path := range seqFiles {
		recs, err := fasta.StreamChanCtxPath(ctx, path)
		if err != nil {
			feedErr = err
			break feed
		}
		for rec := range recs {
			select {
			case jobs <- job{Record: rec}:
			case <-ctx.Done():
				feedErr = ctx.Err()
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-cdone

	if feedErr != nil {
		return feedErr
	}
	return collectErr
}

func allKmersPresent(seq []byte, f AssembledSet, k, numHashes int) (bool, error) {
	it := rollinghash.NewIterator(seq, k, numHashes)
	for {
		rec, ok := it.Next()
		if !ok {
			return true, nil
		}
		if rec.Gap {
			return false, fmt.Errorf("pipeline: candidate contig contains a non-ACGT base")
		}
		if !f.Contains(rec.Window.Hashes()) {
			return false, nil
		}
	}
}

func insertKmers(seq []byte, f AssembledSet, k, numHashes int) error {
	it := rollinghash.NewIterator(seq, k, numHashes)
	for {
		rec, ok := it.Next()
		if !ok {
			return nil
		}
		if rec.Gap {
			return fmt.Errorf("pipeline: candidate contig contains a non-ACGT base")
		}
		f.Insert(rec.Window.Hashes())
	}
}
