package slideshow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albumreel/internal/config"
	"albumreel/internal/logging"
	"albumreel/internal/media/ffprobe"
)

type fakeRunner struct {
	calls [][]string
	fail  bool
}

func (r *fakeRunner) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	r.calls = append(r.calls, append([]string{binary}, args...))
	if r.fail {
		return os.ErrNotExist
	}
	// ffmpeg writes its output file; the fake does the same so later
	// stages (concat list, rename) have something to work with.
	out := args[len(args)-1]
	return os.WriteFile(out, []byte("video"), 0o644)
}

func writeImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func testBuilderConfig() *config.Config {
	cfg := config.Default()
	cfg.Slideshow.BatchSize = 3
	cfg.Slideshow.ZoomEnabled = false
	return &cfg
}

func fixedDurationProbe(seconds string) func(context.Context, string, string) (ffprobe.Result, error) {
	return func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		return ffprobe.Result{Format: ffprobe.Format{Duration: seconds}}, nil
	}
}

func TestRenderSingleBatchAppliesFades(t *testing.T) {
	imagesDir := t.TempDir()
	writeImages(t, imagesDir, "a.jpg", "b.jpg")
	workDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "show.mp4")

	runner := &fakeRunner{}
	builder := NewBuilder(testBuilderConfig(), runner, logging.Discard(), WithProber(fixedDurationProbe("10.5")))

	if err := builder.Render(context.Background(), imagesDir, workDir, outPath); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// One batch render plus the fade pass, no concat in between.
	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 ffmpeg invocations, got %d", len(runner.calls))
	}
	batchCall := strings.Join(runner.calls[0], " ")
	if !strings.Contains(batchCall, filepath.Join(workDir, "segment_000.mp4")) {
		t.Errorf("first call should render segment_000.mp4: %s", batchCall)
	}
	fadeCall := strings.Join(runner.calls[1], " ")
	if !strings.Contains(fadeCall, "fade=t=in:st=0:d=2") {
		t.Errorf("fade pass missing fade-in filter: %s", fadeCall)
	}
	if !strings.Contains(fadeCall, outPath) {
		t.Errorf("fade pass should write %s: %s", outPath, fadeCall)
	}
}

func TestRenderMultipleBatchesConcatenates(t *testing.T) {
	imagesDir := t.TempDir()
	writeImages(t, imagesDir, "a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg")
	workDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "show.mp4")

	runner := &fakeRunner{}
	builder := NewBuilder(testBuilderConfig(), runner, logging.Discard(), WithProber(fixedDurationProbe("33.0")))

	if err := builder.Render(context.Background(), imagesDir, workDir, outPath); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Five images at batch size 3 split into two batches sharing the
	// boundary image: two batch renders, one concat, one fade pass.
	if len(runner.calls) != 4 {
		t.Fatalf("expected 4 ffmpeg invocations, got %d", len(runner.calls))
	}
	concatCall := strings.Join(runner.calls[2], " ")
	if !strings.Contains(concatCall, "-f concat") {
		t.Errorf("third call should use the concat demuxer: %s", concatCall)
	}

	list, err := os.ReadFile(filepath.Join(workDir, "segments.txt"))
	if err != nil {
		t.Fatalf("read concat list: %v", err)
	}
	if !strings.Contains(string(list), "segment_000.mp4") || !strings.Contains(string(list), "segment_001.mp4") {
		t.Errorf("concat list missing segments: %q", list)
	}
}

func TestRenderWithoutFadeMovesJoinedVideo(t *testing.T) {
	imagesDir := t.TempDir()
	writeImages(t, imagesDir, "a.jpg", "b.jpg")
	workDir := t.TempDir()
	outPath := filepath.Join(t.TempDir(), "show.mp4")

	cfg := testBuilderConfig()
	cfg.Slideshow.FadeDuration = 0
	runner := &fakeRunner{}
	builder := NewBuilder(cfg, runner, logging.Discard())

	if err := builder.Render(context.Background(), imagesDir, workDir, outPath); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", len(runner.calls))
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("output not moved into place: %v", err)
	}
}

func TestRenderFailsWhenFFmpegFails(t *testing.T) {
	imagesDir := t.TempDir()
	writeImages(t, imagesDir, "a.jpg", "b.jpg")

	runner := &fakeRunner{fail: true}
	builder := NewBuilder(testBuilderConfig(), runner, logging.Discard())

	err := builder.Render(context.Background(), imagesDir, t.TempDir(), filepath.Join(t.TempDir(), "show.mp4"))
	if err == nil {
		t.Fatal("expected error when ffmpeg fails")
	}
	if !strings.Contains(err.Error(), "render batch 1") {
		t.Errorf("error should name the failing batch: %v", err)
	}
}

func TestRenderFailsOnEmptyDirectory(t *testing.T) {
	builder := NewBuilder(testBuilderConfig(), &fakeRunner{}, logging.Discard())
	err := builder.Render(context.Background(), t.TempDir(), t.TempDir(), filepath.Join(t.TempDir(), "show.mp4"))
	if err == nil {
		t.Fatal("expected error for directory without images")
	}
}
