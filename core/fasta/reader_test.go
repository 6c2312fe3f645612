package fasta

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStreamCtxParsesMultipleRecords(t *testing.T) {
	input := ">read1 some description\nACGT\nACGA\n>read2\nTTTT\n"
	var got []Record
	err := StreamCtx(context.Background(), strings.NewReader(input), func(r Record) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamCtx: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != "read1" || string(got[0].Seq) != "ACGTACGA" {
		t.Fatalf("record 0 = %+v", got[0])
	}
	if got[1].ID != "read2" || string(got[1].Seq) != "TTTT" {
		t.Fatalf("record 1 = %+v", got[1])
	}
}

func TestStreamCtxHonorsCancellation(t *testing.T) {
	input := ">a\nACGT\n>b\nACGT\n>c\nACGT\n"
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	_ = StreamCtx(ctx, strings.NewReader(input), func(r Record) error {
		n++
		cancel()
		return nil
	})
	if n == 0 {
		t.Fatalf("expected at least one record to be emitted before cancellation")
	}
	if n == 3 {
		t.Fatalf("expected cancellation to stop the scan before all 3 records were emitted")
	}
}

func TestStreamCtxSkipsBlankLines(t *testing.T) {
	input := ">a\n\nACGT\n\nACGA\n\n"
	var got Record
	err := StreamCtx(context.Background(), strings.NewReader(input), func(r Record) error {
		got = r
		return nil
	})
	if err != nil {
		t.Fatalf("StreamCtx: %v", err)
	}
	if string(got.Seq) != "ACGTACGA" {
		t.Fatalf("seq = %q, want ACGTACGA", got.Seq)
	}
}

func TestWriterWriteContigFormat(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteContig("0", "read42", []byte("ACGTACGT")); err != nil {
		t.Fatalf("WriteContig: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := ">0 read:read42\nACGTACGT\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
