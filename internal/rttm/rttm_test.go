package rttm

import (
	"errors"
	"strings"
	"testing"

	"diareval/internal/interval"
	"diareval/internal/testsupport"
)

func TestReadParsesSegments(t *testing.T) {
	input := strings.Join([]string{
		";; comment",
		"SPEAKER rec1 1 0.50 1.25 <NA> <NA> CHI <NA>",
		"",
		"SPEAKER rec1 1 2.00 0.50 <NA> <NA> FEM <NA> <NA>",
		"SPEAKER rec2 1 3 1 <NA> <NA> CHI <NA> <NA>",
	}, "\n")
	ann, stats, err := Read(strings.NewReader(input), "ref.rttm", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if stats.Segments != 3 || stats.ZeroDropped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	chi := ann["rec1"]["CHI"]
	if len(chi) != 1 || chi[0].Onset != 0.5 || chi[0].Offset != 1.75 {
		t.Fatalf("unexpected CHI timeline %+v", chi)
	}
	if got := ann.Recordings(); len(got) != 2 || got[0] != "rec1" {
		t.Fatalf("unexpected recordings %v", got)
	}
}

func TestReadRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "eight fields", line: "SPEAKER rec 1 0 1 <NA> <NA> CHI", want: "expected 9 or 10 fields, found 8"},
		{name: "eleven fields", line: "SPEAKER rec 1 0 1 <NA> <NA> CHI <NA> <NA> x", want: "found 11"},
		{name: "type", line: "LEXEME rec 1 0 1 <NA> <NA> CHI <NA>", want: "unsupported record type"},
		{name: "onset", line: "SPEAKER rec 1 abc 1 <NA> <NA> CHI <NA>", want: "invalid onset"},
		{name: "duration", line: "SPEAKER rec 1 0 x <NA> <NA> CHI <NA>", want: "invalid duration"},
		{name: "negative", line: "SPEAKER rec 1 0 -1 <NA> <NA> CHI <NA>", want: "invalid segment"},
		{name: "zero", line: "SPEAKER rec 1 4 0 <NA> <NA> CHI <NA>", want: "invalid segment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := "SPEAKER rec 1 0 1 <NA> <NA> CHI <NA>\n" + tc.line + "\n"
			_, _, err := Read(strings.NewReader(input), "hyp.rttm", Options{})
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.File != "hyp.rttm" || perr.Line != 2 {
				t.Fatalf("unexpected position %s:%d", perr.File, perr.Line)
			}
			if !strings.Contains(perr.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", perr.Error(), tc.want)
			}
			if perr.ErrorKind() != "validation" {
				t.Fatalf("unexpected kind %q", perr.ErrorKind())
			}
		})
	}
}

func TestReadMalformedIntervalIsWrapped(t *testing.T) {
	_, _, err := Read(strings.NewReader("SPEAKER rec 1 -2 1 <NA> <NA> CHI <NA>\n"), "x", Options{})
	var malformed *interval.MalformedIntervalError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected wrapped MalformedIntervalError, got %v", err)
	}
}

func TestReadDropsZeroDurationWhenAllowed(t *testing.T) {
	input := "SPEAKER rec 1 0 1 <NA> <NA> CHI <NA>\nSPEAKER rec 1 4 0 <NA> <NA> CHI <NA>\n"
	ann, stats, err := Read(strings.NewReader(input), "ref.rttm", Options{AllowZeroDuration: true})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if stats.ZeroDropped != 1 || stats.Segments != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(ann["rec"]["CHI"]) != 1 {
		t.Fatalf("zero-length segment should be dropped: %+v", ann)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteRTTM(t, dir, "ref.rttm",
		testsupport.Segment{Recording: "a", Label: "MAL", Onset: 1, Duration: 2},
		testsupport.Segment{Recording: "a", Label: "MAL", Onset: 4, Duration: 1.5},
	)
	ann, _, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := ann["a"]["MAL"].End(); got != 5.5 {
		t.Fatalf("unexpected end %v", got)
	}
	if _, _, err := ReadFile(dir+"/missing.rttm", Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadUEM(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteUEM(t, dir, "all.uem",
		testsupport.Bound{Recording: "a", Start: 0, End: 60},
		testsupport.Bound{Recording: "b", Start: 5, End: 30.5},
	)
	bounds, err := ReadUEMFile(path)
	if err != nil {
		t.Fatalf("ReadUEMFile: %v", err)
	}
	if bounds["b"] != (interval.Bound{Start: 5, End: 30.5}) {
		t.Fatalf("unexpected bound %+v", bounds["b"])
	}
}

func TestReadUEMRejectsMalformedLines(t *testing.T) {
	for name, input := range map[string]string{
		"fields":    "a 1 0\n",
		"start":     "a 1 x 10\n",
		"inverted":  "a 1 10 5\n",
		"duplicate": "a 1 0 10\na 1 0 20\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadUEM(strings.NewReader(input), "all.uem")
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}
