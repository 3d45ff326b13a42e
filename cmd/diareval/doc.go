// Package main hosts the diareval CLI entrypoint and command graph.
//
// The Cobra-based command tree reads RTTM and UEM files, runs the evaluation
// batch, and renders results as console tables, JSON, and report files under
// the configured output directory. It centralizes configuration resolution
// and logging setup so subcommands only wire flags to the internal packages.
//
// Keep this package lean: new scoring behaviour belongs in internal/, with
// commands here limited to argument handling and output.
package main
