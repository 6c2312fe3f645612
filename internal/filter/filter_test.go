package filter

import "testing"

func TestRoundUpToMultiple(t *testing.T) {
	cases := []struct{ n, m, want uint64 }{
		{0, 64, 0},
		{1, 64, 64},
		{64, 64, 64},
		{65, 64, 128},
		{100, 64, 128},
	}
	for _, c := range cases {
		if got := RoundUpToMultiple(c.n, c.m); got != c.want {
			t.Errorf("RoundUpToMultiple(%d,%d) = %d, want %d", c.n, c.m, got, c.want)
		}
	}
}

func TestFilterInsertContains(t *testing.T) {
	f := New(1024, 20, 4)
	a := []uint64{1, 2, 3, 4}
	b := []uint64{5, 6, 7, 8}

	if f.Contains(a) {
		t.Fatalf("empty filter should not contain a")
	}
	f.Insert(a)
	if !f.Contains(a) {
		t.Fatalf("filter should contain a after Insert")
	}
	if f.Contains(b) {
		t.Fatalf("filter should not contain b")
	}

	// Idempotent.
	f.Insert(a)
	if !f.Contains(a) {
		t.Fatalf("filter should still contain a after re-Insert")
	}
}

func TestFilterNoFalseNegatives(t *testing.T) {
	f := New(2048, 20, 3)
	keys := [][]uint64{
		{11, 22, 33},
		{44, 55, 66},
		{77, 88, 99},
		{10, 20, 30},
	}
	for _, k := range keys {
		f.Insert(k)
	}
	for _, k := range keys {
		if !f.Contains(k) {
			t.Fatalf("inserted key %v must be reported present", k)
		}
	}
}

func TestAtomicFilterMatchesPlainSemantics(t *testing.T) {
	f := NewAtomic(1024, 20, 4)
	a := []uint64{100, 200, 300, 400}
	if f.Contains(a) {
		t.Fatalf("empty atomic filter should not contain a")
	}
	f.Insert(a)
	if !f.Contains(a) {
		t.Fatalf("atomic filter should contain a after Insert")
	}
}

func TestFilterAccessorsAndRounding(t *testing.T) {
	f := New(100, 31, 5)
	if f.K() != 31 {
		t.Fatalf("K() = %d, want 31", f.K())
	}
	if f.NumHashes() != 5 {
		t.Fatalf("NumHashes() = %d, want 5", f.NumHashes())
	}
	if len(f.bits)*64 != 128 {
		t.Fatalf("expected capacity rounded to 128 bits, got %d", len(f.bits)*64)
	}
}
