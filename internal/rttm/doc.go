// Package rttm reads RTTM speaker annotations and UEM evaluation bounds.
//
// Both readers accept exactly one schema and reject anything else with a
// *ParseError naming the file and line. Blank lines and ";;" comment lines
// are ignored.
package rttm
