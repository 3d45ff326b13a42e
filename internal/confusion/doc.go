// Package confusion accumulates the per-speaker confusion breakdown of a
// hypothesis annotation against a reference annotation.
//
// For every reference label the report holds five durations: correct
// speaker attribution, false-alarm speaker, false-alarm speech, missed
// speaker, and missed speech. Durations are raw seconds or, when
// normalization is requested, proportions of the recording's reference
// speech. Voice-activity scoring has no speaker identities, so its
// speaker-specific buckets are NaN rather than zero.
package confusion
