package rttm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"diareval/internal/interval"
)

const speakerType = "SPEAKER"

// ParseError reports a malformed line.
type ParseError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for reporting.
func (e *ParseError) ErrorKind() string { return "validation" }

// Options tunes the RTTM reader.
type Options struct {
	// AllowZeroDuration drops lines whose duration is exactly zero instead
	// of rejecting them. Dropped lines are counted in Stats.
	AllowZeroDuration bool
}

// Stats summarizes one read.
type Stats struct {
	Segments    int
	ZeroDropped int
}

// Read parses RTTM lines from r. name is used in error messages.
//
// Each line has exactly 9 or 10 fields:
//
//	SPEAKER <rec> <chan> <onset> <dur> <NA> <NA> <label> <NA> [<extra>]
func Read(r io.Reader, name string, opts Options) (interval.Annotation, Stats, error) {
	ann := interval.Annotation{}
	var stats Stats
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, skip := splitLine(scanner.Text())
		if skip {
			continue
		}
		fail := func(reason string, err error) error {
			return &ParseError{File: name, Line: lineNo, Reason: reason, Err: err}
		}
		if len(fields) != 9 && len(fields) != 10 {
			return nil, stats, fail(fmt.Sprintf("expected 9 or 10 fields, found %d", len(fields)), nil)
		}
		if fields[0] != speakerType {
			return nil, stats, fail(fmt.Sprintf("unsupported record type %q", fields[0]), nil)
		}
		onset, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, stats, fail("invalid onset", err)
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, stats, fail("invalid duration", err)
		}
		if duration == 0 && opts.AllowZeroDuration {
			stats.ZeroDropped++
			continue
		}
		iv, err := interval.New(onset, onset+duration, fields[7])
		if err != nil {
			return nil, stats, fail("invalid segment", err)
		}
		ann.Add(fields[1], iv)
		stats.Segments++
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", name, err)
	}
	return ann, stats, nil
}

// ReadFile parses the RTTM file at path.
func ReadFile(path string, opts Options) (interval.Annotation, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open rttm: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, path, opts)
}

// ReadUEM parses UEM lines from r into per-recording bounds. Each line has
// exactly four fields: <rec> <chan> <start> <end>. A recording listed twice
// is rejected.
func ReadUEM(r io.Reader, name string) (map[string]interval.Bound, error) {
	bounds := make(map[string]interval.Bound)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields, skip := splitLine(scanner.Text())
		if skip {
			continue
		}
		fail := func(reason string, err error) error {
			return &ParseError{File: name, Line: lineNo, Reason: reason, Err: err}
		}
		if len(fields) != 4 {
			return nil, fail(fmt.Sprintf("expected 4 fields, found %d", len(fields)), nil)
		}
		start, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fail("invalid start", err)
		}
		end, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fail("invalid end", err)
		}
		bound, err := interval.NewBound(start, end)
		if err != nil {
			return nil, fail("invalid bound", err)
		}
		if _, dup := bounds[fields[0]]; dup {
			return nil, fail(fmt.Sprintf("duplicate recording %q", fields[0]), nil)
		}
		bounds[fields[0]] = bound
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return bounds, nil
}

// ReadUEMFile parses the UEM file at path.
func ReadUEMFile(path string) (map[string]interval.Bound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open uem: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadUEM(f, path)
}

func splitLine(line string) ([]string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ";;") {
		return nil, true
	}
	return strings.Fields(trimmed), false
}
