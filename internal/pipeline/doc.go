// Package pipeline drives a worker pool over FASTA reads, each run
// through a Driver, and serializes emission of the resulting contigs
// against a shared assembled-set filter.
//
// The only contract to implement is Driver (ProcessRead). This keeps the
// pool swappable and testable independent of internal/assemble's real
// filters.
package pipeline
