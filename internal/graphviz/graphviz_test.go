package graphviz

import (
	"bytes"
	"strings"
	"testing"

	"dbgasm/core/rollinghash"
	"dbgasm/internal/filter"
)

func buildSolidSet(t *testing.T, k, h int, kmers ...string) *filter.Filter {
	t.Helper()
	f := filter.New(4096, k, h)
	for _, s := range kmers {
		w, ok := rollinghash.New([]byte(s), h)
		if !ok {
			t.Fatalf("bad kmer %q", s)
		}
		f.Insert(w.Hashes())
	}
	return f
}

func kmersOf(seq string, k int) []string {
	var out []string
	for i := 0; i+k <= len(seq); i++ {
		out = append(out, seq[i:i+k])
	}
	return out
}

func TestDumpWritesOpeningAndClosingBraces(t *testing.T) {
	const k, h = 4, 3
	f := buildSolidSet(t, k, h, kmersOf("ACGTACGT", k)...)
	var buf bytes.Buffer
	if err := Dump(&buf, [][]byte{[]byte("ACGTACGT")}, f, k, h); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph g {\n") || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("expected a digraph block, got %q", out)
	}
}

func TestDumpSkipsReadWithNoSolidKmers(t *testing.T) {
	const k, h = 4, 3
	f := filter.New(4096, k, h)
	var buf bytes.Buffer
	if err := Dump(&buf, [][]byte{[]byte("ACGTACGT")}, f, k, h); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	if out != "digraph g {\n}\n" {
		t.Fatalf("expected an empty digraph body, got %q", out)
	}
}

func TestDumpDeduplicatesVertexDeclarationsAcrossReads(t *testing.T) {
	const k, h = 4, 3
	f := buildSolidSet(t, k, h, kmersOf("ACGTACGT", k)...)
	var buf bytes.Buffer
	if err := Dump(&buf, [][]byte{[]byte("ACGT"), []byte("ACGT")}, f, k, h); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	// ACGT is its own reverse complement, so its canonical form appears
	// exactly once as a vertex declaration even though it is reachable
	// from both the forward and reverse-complement start of two
	// identical reads.
	if strings.Count(out, "ACGT;") > 1 {
		t.Fatalf("expected at most one declaration of the ACGT vertex, got:\n%s", out)
	}
}
