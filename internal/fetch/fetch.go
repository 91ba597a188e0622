package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"albumreel/internal/manifest"
	"albumreel/internal/services/immich"
)

// Summary reports the outcome of an album fetch.
type Summary struct {
	AlbumID    string
	AlbumName  string
	Dir        string
	Total      int
	Downloaded int
	Skipped    int
}

// Fetcher downloads album images sequentially into a staging directory.
type Fetcher struct {
	client immich.Service
	store  *manifest.Store
	logger *slog.Logger
}

// New constructs a Fetcher.
func New(client immich.Service, store *manifest.Store, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, store: store, logger: logger}
}

// FetchAlbum downloads every image asset of the album into destDir. Assets
// recorded in the manifest whose files are still intact are skipped. The
// first failed download aborts the run.
//
// Filenames carry a payload-order prefix so a sorted directory listing
// reproduces the album order.
func (f *Fetcher) FetchAlbum(ctx context.Context, albumID, destDir string) (*Summary, error) {
	album, err := f.client.Album(ctx, albumID)
	if err != nil {
		return nil, err
	}

	images := album.Images()
	if len(images) == 0 {
		return nil, fmt.Errorf("album %q contains no image assets", album.AlbumName)
	}

	summary := &Summary{
		AlbumID:   album.ID,
		AlbumName: album.AlbumName,
		Dir:       destDir,
		Total:     len(images),
	}

	log := f.logger.With("component", "fetch", "album", album.AlbumName)
	log.Info("fetching album", "assets", len(images), "dir", destDir)

	if err := f.store.RecordAlbum(ctx, album.ID, album.AlbumName); err != nil {
		return nil, fmt.Errorf("record album: %w", err)
	}
	if err := f.reconcileOrder(ctx, log, destDir, images); err != nil {
		return nil, err
	}

	for i, asset := range images {
		name := assetFileName(asset)
		destPath := destPathFor(destDir, i, asset)

		if path, intact, err := f.store.HasIntact(ctx, asset.ID); err != nil {
			return nil, fmt.Errorf("manifest lookup: %w", err)
		} else if intact && path == destPath {
			log.Debug("skipping asset", "asset", asset.ID, "path", path)
			summary.Skipped++
			continue
		}

		written, err := f.client.DownloadOriginal(ctx, asset.ID, destPath)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", name, err)
		}
		if written == 0 {
			return nil, fmt.Errorf("download %s: empty response", name)
		}

		if err := f.store.Record(ctx, manifest.Entry{
			AssetID:   asset.ID,
			AlbumID:   album.ID,
			Filename:  filepath.Base(destPath),
			Path:      destPath,
			SizeBytes: written,
		}); err != nil {
			return nil, fmt.Errorf("record download: %w", err)
		}

		log.Info("downloaded asset", "asset", asset.ID, "file", filepath.Base(destPath), "bytes", written)
		summary.Downloaded++
	}

	return summary, nil
}

// reorderSuffix marks files mid-move while staged images shift slots.
const reorderSuffix = ".reorder"

// reconcileOrder moves intact staged files whose order prefix no longer
// matches the album payload into their new slots before any download
// happens. Without it a re-fetch of a reordered album would keep the stale
// prefixes and the render step would play the old order. Moves go through a
// temporary name first so assets that swapped slots cannot clobber each
// other.
func (f *Fetcher) reconcileOrder(ctx context.Context, log *slog.Logger, destDir string, images []immich.Asset) error {
	type move struct {
		entry manifest.Entry
		dest  string
	}
	var moves []move
	for i, asset := range images {
		destPath := destPathFor(destDir, i, asset)
		path, intact, err := f.store.HasIntact(ctx, asset.ID)
		if err != nil {
			return fmt.Errorf("manifest lookup: %w", err)
		}
		if !intact || path == destPath {
			continue
		}
		entry, found, err := f.store.Lookup(ctx, asset.ID)
		if err != nil {
			return fmt.Errorf("manifest lookup: %w", err)
		}
		if !found {
			continue
		}
		moves = append(moves, move{entry: entry, dest: destPath})
	}
	if len(moves) == 0 {
		return nil
	}

	log.Warn("album order changed, renaming staged images", "moves", len(moves))
	for _, m := range moves {
		if err := os.Rename(m.entry.Path, m.dest+reorderSuffix); err != nil {
			return fmt.Errorf("reorder %s: %w", m.entry.Filename, err)
		}
	}
	for _, m := range moves {
		if err := os.Rename(m.dest+reorderSuffix, m.dest); err != nil {
			return fmt.Errorf("reorder %s: %w", m.entry.Filename, err)
		}
		entry := m.entry
		entry.Path = m.dest
		entry.Filename = filepath.Base(m.dest)
		if err := f.store.Record(ctx, entry); err != nil {
			return fmt.Errorf("record reorder: %w", err)
		}
		log.Info("renamed staged image", "asset", entry.AssetID, "file", entry.Filename)
	}
	return nil
}

func assetFileName(asset immich.Asset) string {
	if asset.OriginalFileName == "" {
		return asset.ID + ".jpg"
	}
	return asset.OriginalFileName
}

func destPathFor(destDir string, index int, asset immich.Asset) string {
	return filepath.Join(destDir, fmt.Sprintf("%04d_%s", index+1, filepath.Base(assetFileName(asset))))
}
