package slideshow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverImagesSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_beach.jpg", "0001_dunes.png", "notes.txt", "0003_cliff.WEBP"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0000_nested.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	images, err := DiscoverImages(dir)
	if err != nil {
		t.Fatalf("DiscoverImages: %v", err)
	}
	want := []string{
		filepath.Join(dir, "0001_dunes.png"),
		filepath.Join(dir, "0002_beach.jpg"),
		filepath.Join(dir, "0003_cliff.WEBP"),
	}
	if len(images) != len(want) {
		t.Fatalf("got %d images, want %d: %v", len(images), len(want), images)
	}
	for i, path := range want {
		if images[i] != path {
			t.Errorf("images[%d] = %s, want %s", i, images[i], path)
		}
	}
}

func TestDiscoverImagesErrorsWhenEmpty(t *testing.T) {
	if _, err := DiscoverImages(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without images")
	}
}

func TestDiscoverImagesErrorsOnMissingDirectory(t *testing.T) {
	if _, err := DiscoverImages(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
