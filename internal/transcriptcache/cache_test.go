package transcriptcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"captionsync/internal/logging"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "transcripts.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func sampleEntry() Entry {
	return Entry{
		Key:             Key{AudioSHA256: "ABC123", Model: "large-v3", Language: "EN"},
		AudioPath:       "/tmp/story.mp3",
		DurationSeconds: 42.5,
		WordCount:       7,
		SegmentsJSON:    []byte(`{"segments":[]}`),
	}
}

func TestStoreAndLookupRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Store(ctx, sampleEntry()); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry, ok, err := cache.Lookup(ctx, Key{AudioSHA256: "abc123", Model: "large-v3", Language: "en"}, 0)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit with normalized key")
	}
	if entry.AudioPath != "/tmp/story.mp3" || entry.WordCount != 7 || entry.DurationSeconds != 42.5 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if string(entry.SegmentsJSON) != `{"segments":[]}` {
		t.Fatalf("unexpected payload %q", entry.SegmentsJSON)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	if _, ok, err := cache.Lookup(ctx, Key{AudioSHA256: "abc123", Model: "medium"}, 0); err != nil || ok {
		t.Fatalf("expected miss for other model, ok=%v err=%v", ok, err)
	}
}

func TestStoreReplacesExistingEntry(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	first := sampleEntry()
	if err := cache.Store(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := sampleEntry()
	second.WordCount = 9
	second.SegmentsJSON = []byte(`{"segments":[{"text":"hi"}]}`)
	if err := cache.Store(ctx, second); err != nil {
		t.Fatal(err)
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Fatalf("expected one entry after upsert, got %d", stats.Entries)
	}
	entry, ok, err := cache.Lookup(ctx, first.Key, 0)
	if err != nil || !ok {
		t.Fatalf("lookup failed ok=%v err=%v", ok, err)
	}
	if entry.WordCount != 9 {
		t.Fatalf("expected replaced entry, got %+v", entry)
	}
}

func TestLookupHonoursMaxAge(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	if err := cache.Store(ctx, sampleEntry()); err != nil {
		t.Fatal(err)
	}

	cache.now = func() time.Time { return base.Add(48 * time.Hour) }
	if _, ok, err := cache.Lookup(ctx, sampleEntry().Key, 24*time.Hour); err != nil || ok {
		t.Fatalf("expected expired miss, ok=%v err=%v", ok, err)
	}
	if _, ok, err := cache.Lookup(ctx, sampleEntry().Key, 72*time.Hour); err != nil || !ok {
		t.Fatalf("expected hit within max age, ok=%v err=%v", ok, err)
	}
}

func TestPruneRemovesOldEntries(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	old := sampleEntry()
	old.CreatedAt = base.Add(-10 * 24 * time.Hour)
	fresh := sampleEntry()
	fresh.AudioSHA256 = "def456"
	fresh.CreatedAt = base.Add(-time.Hour)
	for _, entry := range []Entry{old, fresh} {
		if err := cache.Store(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}

	cache.now = func() time.Time { return base }
	removed, err := cache.Prune(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", removed)
	}
	entries, err := cache.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].AudioSHA256 != "def456" {
		t.Fatalf("unexpected remaining entries %+v", entries)
	}
	if entries[0].SegmentsJSON != nil {
		t.Fatal("List should omit payloads")
	}

	if removed, err := cache.Prune(ctx, 0); err != nil || removed != 0 {
		t.Fatalf("zero max age should be a no-op, removed=%d err=%v", removed, err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	if err := cache.Store(ctx, sampleEntry()); err != nil {
		t.Fatal(err)
	}

	if err := cache.Remove(ctx, Key{AudioSHA256: "missing", Model: "large-v3"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := cache.Remove(ctx, sampleEntry().Key); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := cache.Store(ctx, sampleEntry()); err != nil {
		t.Fatal(err)
	}
	cleared, err := cache.Clear(ctx)
	if err != nil || cleared != 1 {
		t.Fatalf("Clear removed=%d err=%v", cleared, err)
	}
	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 || stats.TotalBytes != 0 || !stats.Oldest.IsZero() {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestStoreValidatesInput(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	missingDigest := sampleEntry()
	missingDigest.AudioSHA256 = " "
	if err := cache.Store(ctx, missingDigest); err == nil {
		t.Fatal("expected error for empty digest")
	}
	missingModel := sampleEntry()
	missingModel.Model = ""
	if err := cache.Store(ctx, missingModel); err == nil {
		t.Fatal("expected error for empty model")
	}
	emptyPayload := sampleEntry()
	emptyPayload.SegmentsJSON = nil
	if err := cache.Store(ctx, emptyPayload); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestReopenDetectsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.db")
	ctx := context.Background()
	cache, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = cache.Close()

	if _, err := Open(ctx, path, nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
