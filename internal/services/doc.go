// Package services defines shared utilities consumed by the caption pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent job statuses (failed vs review).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across jobs.
package services
