package filter

// Membership is the filter surface shared by Filter and AtomicFilter: a
// fixed k and hash count, plus the two operations from spec section 4.2.
// internal/graph and internal/assemble declare their own narrower
// Contains-only interfaces, which either filter type also satisfies.
type Membership interface {
	K() int
	NumHashes() int
	Contains(hashes []uint64) bool
	Insert(hashes []uint64)
}

var (
	_ Membership = (*Filter)(nil)
	_ Membership = (*AtomicFilter)(nil)
)
