// Package evaluate scores every recording of a reference annotation against a
// hypothesis annotation.
//
// Run resolves each recording's evaluation bound, builds the speaker mapping,
// accumulates the confusion breakdown, and optionally evaluates fixed-size
// chunks. Recordings are independent, so Run fans them out to a fixed number
// of workers; results are sorted by recording id before they are returned so
// output never depends on scheduling. Per-recording problems are recorded on
// the result and counted in the Summary instead of aborting the batch.
package evaluate
