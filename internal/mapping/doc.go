// Package mapping aligns hypothesis speaker labels with reference speaker
// labels.
//
// NewMatrix accumulates, for every reference/hypothesis label pair, the time
// both labels are active. Solve finds the one-to-one assignment that
// maximizes total matched overlap on a possibly rectangular matrix, and
// Optimal combines the two into a Mapping. Labels left over when the two
// sides have different sizes, and pairs that never co-occur, stay unmapped.
//
// Voice-activity scoring has no identities to align; it uses the None
// sentinel so downstream accounting can suppress speaker-specific buckets.
package mapping
