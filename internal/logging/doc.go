// Package logging assembles structured slog loggers and formatting helpers used
// across captionsync.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with job IDs, stages, and correlation IDs. Batch runs tee each job into
// its own JSON log file and prune old ones through CleanupOldLogs. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
