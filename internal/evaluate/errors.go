package evaluate

import (
	"errors"
	"fmt"
)

// ErrorClassifier allows errors to declare their classification for reporting.
type ErrorClassifier interface {
	// ErrorKind returns a string classification of the error, such as
	// "validation", "configuration", "not_found", or "degenerate".
	ErrorKind() string
}

// Kind returns the classification of err, or "internal" when nothing in the
// chain declares one.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return "internal"
}

// MissingRecordingError reports a recording present in only one annotation.
type MissingRecordingError struct {
	Recording string
	// MissingFrom is "reference" or "hypothesis".
	MissingFrom string
}

func (e *MissingRecordingError) Error() string {
	return fmt.Sprintf("recording %q is missing from the %s", e.Recording, e.MissingFrom)
}

// ErrorKind classifies the error for reporting.
func (e *MissingRecordingError) ErrorKind() string { return "not_found" }

// DegenerateNormalizationError reports a normalized score over a recording
// with no reference speech. The result is still produced; every bucket is NaN.
type DegenerateNormalizationError struct {
	Recording string
}

func (e *DegenerateNormalizationError) Error() string {
	return fmt.Sprintf("recording %q has no reference speech to normalize by", e.Recording)
}

// ErrorKind classifies the error for reporting.
func (e *DegenerateNormalizationError) ErrorKind() string { return "degenerate" }
