package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, immichURL, apiKey string) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
staging_dir = %q
output_dir = %q
log_dir = %q

[immich]
url = %q
api_key = %q

[logging]
format = "json"
level = "error"
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "output"),
		filepath.Join(base, "logs"),
		immichURL,
		apiKey,
	)
	path := filepath.Join(base, "albumreel.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandSurface(t *testing.T) {
	cmd := newRootCommand()
	want := map[string]bool{
		"fetch": false, "render": false, "plan": false, "merge": false,
		"build": false, "check": false, "config": false, "test-notify": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if !strings.Contains(string(data), "[immich]") {
		t.Errorf("sample missing immich section:\n%s", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when sample already exists without --overwrite")
	}
}

func TestConfigShowRedactsAPIKey(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://immich.local", "immich-key-12345678")
	out, err := runCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v\n%s", err, out)
	}
	if !strings.Contains(out, "url = 'http://immich.local'") {
		t.Errorf("output should include the configured url:\n%s", out)
	}
	if !strings.Contains(out, "staging_dir") || !strings.Contains(out, "[slideshow]") {
		t.Errorf("output should include the effective sections:\n%s", out)
	}
	if strings.Contains(out, "immich-key-12345678") {
		t.Errorf("api key must not be printed in full:\n%s", out)
	}
	if !strings.Contains(out, "5678") {
		t.Errorf("redacted key should keep its suffix:\n%s", out)
	}
}

func TestPlanRequiresAudioSource(t *testing.T) {
	cfgPath := writeTestConfig(t, "", "")
	_, err := runCommand(t, "--config", cfgPath, "plan", "--duration", "60")
	if err == nil || !strings.Contains(err.Error(), "--tracks or --playlist") {
		t.Fatalf("expected audio source error, got %v", err)
	}
}

func TestFetchRequiresImmichConfig(t *testing.T) {
	cfgPath := writeTestConfig(t, "", "")
	_, err := runCommand(t, "--config", cfgPath, "fetch", "album-1")
	if err == nil || !strings.Contains(err.Error(), "immich url not configured") {
		t.Fatalf("expected missing immich config error, got %v", err)
	}
}

func TestFetchDownloadsAlbumImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/albums/album-1":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"id": "album-1",
				"albumName": "summer trip",
				"assetCount": 2,
				"assets": [
					{"id": "a1", "type": "IMAGE", "originalFileName": "beach.jpg"},
					{"id": "a2", "type": "IMAGE", "originalFileName": "dunes.jpg"}
				]
			}`)
		case "/assets/a1/original", "/assets/a2/original":
			w.Write([]byte("jpegdata"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfgPath := writeTestConfig(t, srv.URL, "secret")
	out, err := runCommand(t, "--config", cfgPath, "fetch", "album-1")
	if err != nil {
		t.Fatalf("fetch: %v\n%s", err, out)
	}
	if !strings.Contains(out, "summer trip") {
		t.Errorf("summary should name the album:\n%s", out)
	}

	albumDir := filepath.Join(filepath.Dir(cfgPath), "staging", "albums", "album-1")
	for _, name := range []string{"0001_beach.jpg", "0002_dunes.jpg"} {
		if _, err := os.Stat(filepath.Join(albumDir, name)); err != nil {
			t.Errorf("expected downloaded image %s: %v", name, err)
		}
	}
}

func TestMergeRequiresFlags(t *testing.T) {
	cfgPath := writeTestConfig(t, "", "")
	_, err := runCommand(t, "--config", cfgPath, "merge")
	if err == nil {
		t.Fatal("expected error for missing required flags")
	}
}
