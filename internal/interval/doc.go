// Package interval implements the time-interval arithmetic behind every score
// diareval reports.
//
// Annotations arrive as labelled, possibly overlapping intervals. The package
// validates them at construction, merges them into disjoint runs, derives
// silence as the complement of a timeline within an evaluation bound, sums
// pairwise intersections of disjoint run lists, and indexes runs in a
// read-only Tree for window queries. UnionDuration computes covered speech
// time, which the scorers use as their normalization denominator.
//
// All spans are half-open [Onset, Offset) in seconds. Touching spans merge:
// an onset equal to the current offset extends the run rather than opening a
// zero-length gap.
package interval
