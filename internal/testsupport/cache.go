package testsupport

import (
	"context"
	"testing"

	"captionsync/internal/config"
	"captionsync/internal/logging"
	"captionsync/internal/transcriptcache"
)

// MustOpenCache opens the transcript cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Cache {
	t.Helper()

	cache, err := transcriptcache.Open(context.Background(), cfg.TranscriptCachePath(), logging.NewNop())
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}
