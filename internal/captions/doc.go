// Package captions turns a narrated story into word-synchronized SRT
// captions.
//
// Service.Generate runs the full pipeline for one story: it cleans and
// expands the narration text, normalizes it into tokens, obtains recognized
// words (from the caller, the transcript cache, or WhisperX), chooses between
// the aligner and the duration estimator, groups spans into cues and writes
// the SRT atomically. RunBatch drives Generate across a directory of story
// folders with bounded parallelism and per-job log files.
//
// Metrics are recorded into a private Prometheus registry that the CLI can
// flush to a node-exporter textfile after a batch.
package captions
