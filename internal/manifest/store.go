package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry records one downloaded album asset.
type Entry struct {
	AssetID      string
	AlbumID      string
	Filename     string
	Path         string
	SizeBytes    int64
	DownloadedAt time.Time
}

// Store manages download manifest persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the manifest database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("manifest path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create manifest directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts a manifest entry after a successful download.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.AssetID) == "" {
		return errors.New("asset id required")
	}
	downloadedAt := entry.DownloadedAt
	if downloadedAt.IsZero() {
		downloadedAt = time.Now().UTC()
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO downloads (asset_id, album_id, filename, path, size_bytes, downloaded_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(asset_id) DO UPDATE SET
    album_id = excluded.album_id,
    filename = excluded.filename,
    path = excluded.path,
    size_bytes = excluded.size_bytes,
    downloaded_at = excluded.downloaded_at`,
			entry.AssetID, entry.AlbumID, entry.Filename, entry.Path, entry.SizeBytes,
			downloadedAt.Format(time.RFC3339))
		return err
	})
}

// Lookup returns the manifest entry for an asset, if present.
func (s *Store) Lookup(ctx context.Context, assetID string) (Entry, bool, error) {
	var (
		entry Entry
		at    string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT asset_id, album_id, filename, path, size_bytes, downloaded_at
FROM downloads WHERE asset_id = ?`, assetID).
		Scan(&entry.AssetID, &entry.AlbumID, &entry.Filename, &entry.Path, &entry.SizeBytes, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup asset %s: %w", assetID, err)
	}
	if parsed, parseErr := time.Parse(time.RFC3339, at); parseErr == nil {
		entry.DownloadedAt = parsed
	}
	return entry, true, nil
}

// HasIntact reports whether the asset was downloaded before and the recorded
// file still exists on disk with the recorded size.
func (s *Store) HasIntact(ctx context.Context, assetID string) (string, bool, error) {
	entry, found, err := s.Lookup(ctx, assetID)
	if err != nil || !found {
		return "", false, err
	}
	info, statErr := os.Stat(entry.Path)
	if statErr != nil || info.IsDir() || info.Size() != entry.SizeBytes {
		return "", false, nil
	}
	return entry.Path, true, nil
}

// RecordAlbum upserts the album's display name so later runs can name
// outputs without another API round trip.
func (s *Store) RecordAlbum(ctx context.Context, albumID, albumName string) error {
	if strings.TrimSpace(albumID) == "" {
		return errors.New("album id required")
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO albums (album_id, album_name, fetched_at)
VALUES (?, ?, ?)
ON CONFLICT(album_id) DO UPDATE SET
    album_name = excluded.album_name,
    fetched_at = excluded.fetched_at`,
			albumID, albumName, time.Now().UTC().Format(time.RFC3339))
		return err
	})
}

// AlbumName returns the recorded display name for an album, if present.
func (s *Store) AlbumName(ctx context.Context, albumID string) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT album_name FROM albums WHERE album_id = ?", albumID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup album %s: %w", albumID, err)
	}
	return name, true, nil
}

// AlbumEntries returns every manifest entry for an album ordered by filename.
func (s *Store) AlbumEntries(ctx context.Context, albumID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT asset_id, album_id, filename, path, size_bytes, downloaded_at
FROM downloads WHERE album_id = ? ORDER BY filename`, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album %s: %w", albumID, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry Entry
			at    string
		)
		if err := rows.Scan(&entry.AssetID, &entry.AlbumID, &entry.Filename, &entry.Path, &entry.SizeBytes, &at); err != nil {
			return nil, fmt.Errorf("scan manifest row: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339, at); parseErr == nil {
			entry.DownloadedAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
