// Package ffprobe provides a typed wrapper around ffprobe JSON output, used
// to learn the total length of narration audio.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - AudioDuration: Inspect plus a validated duration in seconds
package ffprobe
