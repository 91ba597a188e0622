package immich_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"albumreel/internal/services/immich"
)

func TestNewRequiresURLAndKey(t *testing.T) {
	if _, err := immich.New("", "key", time.Minute); err == nil {
		t.Fatal("expected error when url missing")
	}
	if _, err := immich.New("https://example.com", "", time.Minute); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestAlbumSendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/albums/abc" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "key" {
			t.Fatalf("expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"abc",
			"albumName":"Summer 2025",
			"assetCount":2,
			"assets":[
				{"id":"a1","type":"IMAGE","originalFileName":"IMG_0001.jpg"},
				{"id":"v1","type":"VIDEO","originalFileName":"clip.mov"}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := immich.New(server.URL, "key", time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	album, err := client.Album(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Album returned error: %v", err)
	}
	if album.AlbumName != "Summer 2025" {
		t.Fatalf("unexpected album name: %q", album.AlbumName)
	}
	images := album.Images()
	if len(images) != 1 || images[0].ID != "a1" {
		t.Fatalf("expected video assets filtered out, got %#v", images)
	}
}

func TestAlbumHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := immich.New(server.URL, "key", time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Album(context.Background(), "missing"); err == nil {
		t.Fatal("expected error when server returns 404")
	}
}

func TestDownloadOriginalWritesFile(t *testing.T) {
	payload := []byte("jpeg-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/a1/original" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)

	client, err := immich.New(server.URL, "key", time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "album", "IMG_0001.jpg")
	written, err := client.DownloadOriginal(context.Background(), "a1", dest)
	if err != nil {
		t.Fatalf("DownloadOriginal returned error: %v", err)
	}
	if written != int64(len(payload)) {
		t.Fatalf("unexpected byte count: %d", written)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected file contents: %q", data)
	}
	entries, err := os.ReadDir(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleaned up, found %d entries", len(entries))
	}
}

func TestDownloadOriginalHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client, err := immich.New(server.URL, "key", time.Minute)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	dest := filepath.Join(t.TempDir(), "IMG.jpg")
	if _, err := client.DownloadOriginal(context.Background(), "a1", dest); err == nil {
		t.Fatal("expected error when server returns 403")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("expected no file written on failure")
	}
}
