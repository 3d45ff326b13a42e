package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Segment describes one RTTM line for fixtures.
type Segment struct {
	Recording string
	Label     string
	Onset     float64
	Duration  float64
}

// WriteText writes body to path, creating parent directories.
func WriteText(t testing.TB, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRTTM writes segments as 10-field RTTM lines and returns the path.
func WriteRTTM(t testing.TB, dir, name string, segments ...Segment) string {
	t.Helper()

	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "SPEAKER %s 1 %.3f %.3f <NA> <NA> %s <NA> <NA>\n",
			seg.Recording, seg.Onset, seg.Duration, seg.Label)
	}
	path := filepath.Join(dir, name)
	WriteText(t, path, b.String())
	return path
}

// Bound is one UEM line for fixtures.
type Bound struct {
	Recording  string
	Start, End float64
}

// WriteUEM writes bounds as UEM lines and returns the path.
func WriteUEM(t testing.TB, dir, name string, bounds ...Bound) string {
	t.Helper()

	var b strings.Builder
	for _, bound := range bounds {
		fmt.Fprintf(&b, "%s 1 %.3f %.3f\n", bound.Recording, bound.Start, bound.End)
	}
	path := filepath.Join(dir, name)
	WriteText(t, path, b.String())
	return path
}

// WriteWAV writes a silent 16-bit mono WAV file of the requested length.
func WriteWAV(t testing.TB, path string, sampleRate int, seconds float64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, int(seconds*float64(sampleRate))),
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("close wav encoder %s: %v", path, err)
	}
}
