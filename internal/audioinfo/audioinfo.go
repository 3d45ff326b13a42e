// Package audioinfo reads clip lengths from WAV headers.
package audioinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for files without a readable WAV header.
var ErrInvalidWAV = errors.New("invalid wav file")

// Duration returns the length of the WAV file at path in seconds.
func Duration(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	// Duration() on the decoder counts the RIFF header bytes; size the data
	// chunk instead.
	if err := decoder.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("wav data chunk %s: %w", path, err)
	}
	bytesPerSecond := int64(decoder.SampleRate) * int64(decoder.NumChans) * int64(decoder.BitDepth/8)
	if bytesPerSecond <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	return float64(decoder.PCMLen()) / float64(bytesPerSecond), nil
}

// Lookup finds <recording>.wav under dir and returns its length. ok is false
// when dir is empty or the file does not exist.
func Lookup(dir, recording string) (seconds float64, ok bool, err error) {
	if dir == "" {
		return 0, false, nil
	}
	path := filepath.Join(dir, recording+".wav")
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("stat wav: %w", statErr)
	}
	seconds, err = Duration(path)
	if err != nil {
		return 0, false, err
	}
	return seconds, true, nil
}
