// Package transcriptcache persists recognizer output keyed by the audio it
// was produced from.
//
// WhisperX runs dominate job time, and narration audio is frequently
// re-captioned after grouping or expansion changes. The cache stores the raw
// segment JSON per (audio SHA256, model, language) in a SQLite database
// (default: ~/.local/share/captionsync/cache/transcripts.db) so a re-run
// skips recognition entirely.
//
// CLI commands for inspection and management:
//
//	captionsync cache list    # List cached transcripts
//	captionsync cache prune   # Drop entries older than cache.max_age_days
//	captionsync cache clear   # Remove all entries
package transcriptcache
