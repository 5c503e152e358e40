// Package align assigns a time span to every original narration token.
//
// Aligner walks the original tokens and the recognizer's timestamped words
// with two cursors, matching expandable tokens against their expansion and
// plain tokens one word at a time. Mismatches are recovered locally and
// flagged on the span; running out of recognized words falls back to linear
// interpolation up to the audio duration. Every token always receives exactly
// one span and spans are monotonic.
//
// Estimator is the degraded mode used when recognizer output is unusable. It
// spreads the audio duration over tokens by character weight.
//
// Both paths satisfy SpanSource so cue grouping does not care where timings
// came from. Everything in this package is pure and safe for concurrent use.
package align
