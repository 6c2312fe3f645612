package fasta

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits FASTA records to an underlying io.Writer, buffered so a
// busy pipeline's emit critical section (spec section 5) spends as little
// time as possible inside the write call itself.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteContig writes one assembled contig record in the
// ">{id} read:{sourceReadID}\n{seq}\n" format spec section 4.5 step 7c
// specifies.
func (w *Writer) WriteContig(id, sourceReadID string, seq []byte) error {
	if _, err := fmt.Fprintf(w.w, ">%s read:%s\n", id, sourceReadID); err != nil {
		return err
	}
	if _, err := w.w.Write(seq); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush flushes any buffered output.
func (w *Writer) Flush() error { return w.w.Flush() }
