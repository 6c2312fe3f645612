package filter

import (
	"encoding/gob"
	"io"
)

// header is the gob-encoded record preceding a Filter's bit array,
// carrying the (numBits, k, numHashes) triple a loader needs before it can
// interpret the bits that follow.
type header struct {
	NumBits   uint64
	K         int
	NumHashes int
}

// Save gob-encodes f's header followed by its bit array to w, for the
// filterbuild count command to hand a solid set to a later assemble run.
func (f *Filter) Save(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{NumBits: f.numBits, K: f.k, NumHashes: f.numHashes}); err != nil {
		return err
	}
	return enc.Encode(f.bits)
}

// Load decodes a Filter previously written by Save.
func Load(r io.Reader) (*Filter, error) {
	dec := gob.NewDecoder(r)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, err
	}
	var bits []uint64
	if err := dec.Decode(&bits); err != nil {
		return nil, err
	}
	return &Filter{bits: bits, numBits: h.NumBits, k: h.K, numHashes: h.NumHashes}, nil
}
