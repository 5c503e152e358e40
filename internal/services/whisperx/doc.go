// Package whisperx runs WhisperX through uvx to recover word-level
// timestamps from synthesized narration.
//
// This package handles:
//   - Extracting a mono 16kHz WAV from the narration audio with ffmpeg
//   - Invoking WhisperX and locating its JSON output
//   - Parsing segments and flattening them into an ordered word stream
//
// WhisperX occasionally emits words without timestamps (numerals, symbols)
// and segments without word alignment. FlattenWords fills those gaps from
// neighbouring timings so downstream alignment always sees monotonic input.
package whisperx
