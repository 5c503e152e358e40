package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpegPath returns the configured ffmpeg binary or "ffmpeg".
func ResolveFFmpegPath(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	return "ffmpeg"
}

// ResolveFFprobePath returns the configured ffprobe binary. When none is set
// and ffmpeg is an explicit path, an executable ffprobe next to it wins;
// otherwise "ffprobe" is resolved from PATH.
func ResolveFFprobePath(configured, ffmpegBinary string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if dir := filepath.Dir(ffmpegBinary); ffmpegBinary != "" && dir != "." {
		candidate := filepath.Join(dir, executableName("ffprobe"))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate
		}
	}
	return "ffprobe"
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
