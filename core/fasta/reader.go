// Package fasta streams and writes FASTA records. Reads are never
// chunked here (unlike the primer-matching tool this is adapted from): an
// assembly read is always processed whole, so a record is exactly one DNA
// sequence keyed by its header ID.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one parsed FASTA sequence.
type Record struct {
	ID  string
	Seq []byte
}

// maxLineBytes bounds a single buffered line so a pathological FASTA file
// (one gigantic unwrapped sequence line) doesn't grow the scanner's buffer
// unboundedly.
const maxLineBytes = 64 * 1024 * 1024

// StreamCtx parses FASTA records from r, calling emit for each one in
// order. It returns promptly once ctx is done, even mid-record. A non-nil
// error from emit stops the scan and is returned to the caller.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		id  string
		seq = make([]byte, 0, 1<<16)
	)

	flush := func() error {
		if id == "" {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if id != "" {
				if err := flush(); err != nil {
					return err
				}
				seq = seq[:0]
			}
			id = parseHeaderID(line[1:])
			continue
		}
		seq = append(seq, bytes.ToUpper(bytes.TrimSpace(line))...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	if id != "" {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

// StreamPathCtx opens path (gzip- and stdin-aware, see open.go) and streams
// its FASTA records through StreamCtx.
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return StreamCtx(ctx, rc, emit)
}

// StreamChanCtxPath opens path eagerly (reporting any open error to the
// caller synchronously) and streams its records into a channel read by a
// background goroutine, for callers that want a channel-based pull loop
// (internal/pipeline's input section) rather than a callback.
func StreamChanCtxPath(ctx context.Context, path string) (<-chan Record, error) {
	if path != "-" {
		rc, err := openReader(path)
		if err != nil {
			return nil, err
		}
		_ = rc.Close()
	}
	out := make(chan Record, 8)
	go func() {
		defer close(out)
		_ = StreamPathCtx(ctx, path, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
