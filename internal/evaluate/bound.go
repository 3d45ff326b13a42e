package evaluate

import (
	"fmt"

	"diareval/internal/audioinfo"
	"diareval/internal/interval"
)

// BoundSource names where an evaluation bound came from.
type BoundSource string

const (
	BoundFromUEM        BoundSource = "uem"
	BoundFromWAV        BoundSource = "wav"
	BoundFromAnnotation BoundSource = "annotation"
)

// ResolveBound picks the evaluation bound for recording: its UEM entry, else
// the length of <wavDir>/<recording>.wav, else [0, last offset] over both
// annotations.
func ResolveBound(recording string, ref, hyp interval.Recording, uem map[string]interval.Bound, wavDir string) (interval.Bound, BoundSource, error) {
	if b, ok := uem[recording]; ok {
		return b, BoundFromUEM, nil
	}
	seconds, ok, err := audioinfo.Lookup(wavDir, recording)
	if err != nil {
		return interval.Bound{}, "", err
	}
	if ok {
		b, err := interval.NewBound(0, seconds)
		if err != nil {
			return interval.Bound{}, "", fmt.Errorf("wav bound for %q: %w", recording, err)
		}
		return b, BoundFromWAV, nil
	}
	b, err := interval.NewBound(0, max(ref.End(), hyp.End()))
	if err != nil {
		return interval.Bound{}, "", fmt.Errorf("annotation bound for %q: %w", recording, err)
	}
	return b, BoundFromAnnotation, nil
}
