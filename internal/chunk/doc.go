// Package chunk evaluates speech detection over fixed-size windows of one
// recording.
//
// An Evaluator indexes four disjoint-run trees (reference speech, hypothesis
// speech, reference silence, hypothesis silence) once and answers any window
// from them. Evaluate streams one Result per window as an iter.Seq; the
// sequence is restartable and shares nothing across recordings.
package chunk
