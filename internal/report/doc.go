// Package report renders evaluation and corpus statistics results as CSV
// files, a JSON summary, and console tables.
//
// NaN is a legitimate value throughout (voice-activity speaker buckets,
// degenerate normalization, statistics over silent files). CSV renders it as
// "NA", JSON as null, and tables as "-".
//
// Writer owns an output directory: it takes an advisory lock so two runs
// cannot interleave files, places each run in its own subdirectory, and
// writes every file atomically.
package report
