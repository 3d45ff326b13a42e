// Package preflight provides readiness checks for the filesystem paths
// diareval reads from and writes to.
//
// These checks run in two contexts:
//   - "diareval config validate" runs RunAll and prints one status line per
//     check.
//   - The evaluation commands call CheckInputs before parsing so a missing or
//     unreadable annotation is reported by path instead of as a parse error.
//
// Optional paths (wav_dir, role_map) are skipped when unset.
package preflight
