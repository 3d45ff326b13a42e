// Package logs reads back the JSON log file written by internal/logging.
//
// Records are filtered by run id, recording, and minimum level, and only the
// last Limit matches are kept so large log files are scanned with bounded
// memory. Lines that are not JSON objects are skipped.
package logs
