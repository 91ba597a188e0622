package main

import (
	"context"
	"path/filepath"
	"testing"

	"albumreel/internal/manifest"
)

func TestRenderOutputNameUsesAlbumTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	store, err := manifest.Open(path)
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	if err := store.RecordAlbum(context.Background(), "album-1", "summer trip: 2024"); err != nil {
		t.Fatalf("record album: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close manifest: %v", err)
	}

	name, err := renderOutputName(context.Background(), path, "album-1")
	if err != nil {
		t.Fatalf("renderOutputName: %v", err)
	}
	if name != "Summer Trip- 2024.mp4" {
		t.Fatalf("unexpected output name: %q", name)
	}
}

func TestRenderOutputNameFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")

	name, err := renderOutputName(context.Background(), path, "")
	if err != nil {
		t.Fatalf("renderOutputName without album: %v", err)
	}
	if name != "slideshow.mp4" {
		t.Fatalf("unexpected fallback: %q", name)
	}

	name, err = renderOutputName(context.Background(), path, "album-unknown")
	if err != nil {
		t.Fatalf("renderOutputName for unknown album: %v", err)
	}
	if name != "slideshow.mp4" {
		t.Fatalf("unexpected fallback: %q", name)
	}
}
