// Package deps checks that the external binaries the caption pipeline shells
// out to (ffmpeg, ffprobe, uvx) are installed, and resolves their paths.
package deps
