package transcriptcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"captionsync/internal/logging"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when removing a key that is not cached.
var ErrNotFound = errors.New("transcript not cached")

// Key identifies a recognizer run.
type Key struct {
	AudioSHA256 string
	Model       string
	Language    string
}

func (k Key) normalized() Key {
	return Key{
		AudioSHA256: strings.ToLower(strings.TrimSpace(k.AudioSHA256)),
		Model:       strings.TrimSpace(k.Model),
		Language:    strings.ToLower(strings.TrimSpace(k.Language)),
	}
}

func (k Key) validate() error {
	if k.AudioSHA256 == "" {
		return errors.New("audio digest cannot be empty")
	}
	if k.Model == "" {
		return errors.New("model cannot be empty")
	}
	return nil
}

// Entry is one cached transcript.
type Entry struct {
	Key
	AudioPath       string
	DurationSeconds float64
	WordCount       int
	SegmentsJSON    []byte
	CreatedAt       time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int
	TotalBytes int64
	Oldest     time.Time
	Newest     time.Time
}

// Cache is a SQLite-backed transcript store. It is safe for concurrent use.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Cache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("transcript cache path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "transcriptcache"),
		now:    time.Now,
	}
	if err := cache.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the entry for key. Entries older than maxAge are treated as
// misses; maxAge <= 0 disables expiry.
func (c *Cache) Lookup(ctx context.Context, key Key, maxAge time.Duration) (Entry, bool, error) {
	key = key.normalized()
	if err := key.validate(); err != nil {
		return Entry{}, false, err
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM transcripts WHERE audio_sha256 = ? AND model = ? AND language = ?`,
		key.AudioSHA256, key.Model, key.Language,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup transcript: %w", err)
	}
	if maxAge > 0 && c.now().Sub(entry.CreatedAt) > maxAge {
		c.logger.Debug("cached transcript expired",
			logging.String("audio_sha256", key.AudioSHA256),
			logging.Duration("age", c.now().Sub(entry.CreatedAt)))
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Store inserts or replaces the entry for its key.
func (c *Cache) Store(ctx context.Context, entry Entry) error {
	entry.Key = entry.Key.normalized()
	if err := entry.Key.validate(); err != nil {
		return err
	}
	if len(entry.SegmentsJSON) == 0 {
		return errors.New("segments payload cannot be empty")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO transcripts (
            audio_sha256, model, language, audio_path, duration_seconds,
            word_count, segments_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (audio_sha256, model, language) DO UPDATE SET
            audio_path = excluded.audio_path,
            duration_seconds = excluded.duration_seconds,
            word_count = excluded.word_count,
            segments_json = excluded.segments_json,
            created_at = excluded.created_at`,
		entry.AudioSHA256,
		entry.Model,
		entry.Language,
		nullableString(entry.AudioPath),
		entry.DurationSeconds,
		entry.WordCount,
		string(entry.SegmentsJSON),
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}

	c.logger.Debug("cached transcript",
		logging.String("audio_sha256", entry.AudioSHA256),
		logging.String("model", entry.Model),
		logging.Int("word_count", entry.WordCount))
	return nil
}

// List returns all entries, newest first. Segment payloads are omitted.
func (c *Cache) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT audio_sha256, model, language, audio_path, duration_seconds, word_count, '', created_at
         FROM transcripts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Remove deletes the entry for key.
func (c *Cache) Remove(ctx context.Context, key Key) error {
	key = key.normalized()
	if err := key.validate(); err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM transcripts WHERE audio_sha256 = ? AND model = ? AND language = ?`,
		key.AudioSHA256, key.Model, key.Language,
	)
	if err != nil {
		return fmt.Errorf("remove transcript: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key.AudioSHA256)
	}
	return nil
}

// Prune removes entries older than maxAge and returns how many were dropped.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := formatTime(c.now().Add(-maxAge))
	res, err := c.db.ExecContext(ctx, `DELETE FROM transcripts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune transcripts: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	if removed > 0 {
		c.logger.Info("transcript cache pruned",
			logging.Int64("removed", removed),
			logging.String(logging.FieldEventType, "transcript_cache_pruned"))
	}
	return removed, nil
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports entry counts, payload size, and the age range.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var (
		stats          Stats
		total          sql.NullInt64
		oldest, newest sql.NullString
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1), SUM(LENGTH(segments_json)), MIN(created_at), MAX(created_at) FROM transcripts`,
	).Scan(&stats.Entries, &total, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("transcript cache stats: %w", err)
	}
	stats.TotalBytes = total.Int64
	if oldest.Valid {
		stats.Oldest, _ = parseTime(oldest.String)
	}
	if newest.Valid {
		stats.Newest, _ = parseTime(newest.String)
	}
	return stats, nil
}

const entryColumns = `audio_sha256, model, language, audio_path, duration_seconds, word_count, segments_json, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry     Entry
		audioPath sql.NullString
		payload   string
		createdAt string
	)
	if err := row.Scan(
		&entry.AudioSHA256,
		&entry.Model,
		&entry.Language,
		&audioPath,
		&entry.DurationSeconds,
		&entry.WordCount,
		&payload,
		&createdAt,
	); err != nil {
		return Entry{}, err
	}
	entry.AudioPath = audioPath.String
	if payload != "" {
		entry.SegmentsJSON = []byte(payload)
	}
	ts, err := parseTime(createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = ts
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}
