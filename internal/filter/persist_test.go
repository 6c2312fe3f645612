package filter

import (
	"bytes"
	"testing"
)

func TestSaveLoadRoundTrips(t *testing.T) {
	f := New(1024, 20, 4)
	a := []uint64{1, 2, 3, 4}
	f.Insert(a)

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.K() != f.K() || got.NumHashes() != f.NumHashes() {
		t.Fatalf("Load lost header: k=%d numHashes=%d, want k=%d numHashes=%d", got.K(), got.NumHashes(), f.K(), f.NumHashes())
	}
	if !got.Contains(a) {
		t.Fatalf("loaded filter should still contain a")
	}
	if got.Contains([]uint64{5, 6, 7, 8}) {
		t.Fatalf("loaded filter should not contain an uninserted key")
	}
}
