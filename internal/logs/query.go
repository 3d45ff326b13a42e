package logs

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"diareval/internal/logging"
)

// Entry is one decoded log record.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	RunID     string
	Recording string
	// Fields holds every remaining attribute.
	Fields map[string]any
	Raw    string
}

// Filter selects entries. Zero values match everything.
type Filter struct {
	RunID     string
	Recording string
	// MinLevel is one of debug, info, warn, error.
	MinLevel string
	// Limit keeps only the last Limit matches when positive.
	Limit int
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "warning": 2, "error": 3}

// ErrUnknownLevel is returned for a MinLevel outside debug, info, warn, error.
var ErrUnknownLevel = errors.New("unknown log level")

// Read scans the log file at path and returns matching entries in file
// order. A missing file yields no entries.
func Read(path string, filter Filter) ([]Entry, error) {
	minRank := 0
	if lvl := strings.ToLower(strings.TrimSpace(filter.MinLevel)); lvl != "" {
		rank, ok := levelRank[lvl]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, filter.MinLevel)
		}
		minRank = rank
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var ring []Entry
	next := 0
	for scanner.Scan() {
		entry, ok := decode(scanner.Text())
		if !ok || !filter.matches(entry, minRank) {
			continue
		}
		if filter.Limit <= 0 || len(ring) < filter.Limit {
			ring = append(ring, entry)
			continue
		}
		ring[next] = entry
		next = (next + 1) % filter.Limit
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	if next == 0 {
		return ring, nil
	}
	return slices.Concat(ring[next:], ring[:next]), nil
}

func (f Filter) matches(e Entry, minRank int) bool {
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.Recording != "" && e.Recording != f.Recording {
		return false
	}
	return levelRank[e.Level] >= minRank
}

func decode(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Entry{}, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{}, false
	}
	take := func(key string) string {
		v, _ := fields[key].(string)
		delete(fields, key)
		return v
	}
	e := Entry{
		Level:     strings.ToLower(take("level")),
		Message:   take("msg"),
		Component: take(logging.FieldComponent),
		RunID:     take(logging.FieldRunID),
		Recording: take(logging.FieldRecording),
		Raw:       line,
	}
	if ts := take("ts"); ts != "" {
		e.Time, _ = time.Parse(time.RFC3339, ts)
	}
	e.Fields = fields
	return e, true
}
