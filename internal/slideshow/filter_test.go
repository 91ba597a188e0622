package slideshow

import (
	"strings"
	"testing"

	"albumreel/internal/config"
)

func testSettings() config.Slideshow {
	cfg := config.Default().Slideshow
	cfg.ZoomEnabled = false
	cfg.ImageDuration = 6
	cfg.CrossfadeDuration = 1.5
	cfg.FadeDuration = 2
	return cfg
}

func TestBatchArgsStaticImages(t *testing.T) {
	cfg := testSettings()
	args := BatchArgs(cfg, []string{"/imgs/a.jpg", "/imgs/b.jpg", "/imgs/c.jpg"}, "/work/seg.mp4", true)

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-loop 1 -t 7.5 -i /imgs/a.jpg") {
		t.Fatalf("expected looped input with hold+crossfade duration, got: %s", joined)
	}
	if !strings.Contains(joined, "xfade=transition=fade:duration=1.5:offset=4.5[x1]") {
		t.Fatalf("first xfade offset wrong: %s", joined)
	}
	if !strings.Contains(joined, "[x1][v2]xfade=transition=fade:duration=1.5:offset=9[x2]") {
		t.Fatalf("second xfade offset wrong: %s", joined)
	}
	if !strings.Contains(joined, "-map [x2]") {
		t.Fatalf("final output not mapped: %s", joined)
	}
	// Final segment: 2*(6-1.5) + 6 = 15s.
	if !strings.Contains(joined, "-t 15 /work/seg.mp4") {
		t.Fatalf("final segment duration wrong: %s", joined)
	}
	if !strings.Contains(joined, "-an") {
		t.Fatalf("expected audio disabled: %s", joined)
	}
}

func TestBatchArgsNonFinalSegmentTrimsAfterBoundaryFade(t *testing.T) {
	cfg := testSettings()
	args := BatchArgs(cfg, []string{"/imgs/a.jpg", "/imgs/b.jpg"}, "/work/seg.mp4", false)
	joined := strings.Join(args, " ")
	// Non-final segment: (2-1)*(6-1.5) + 1.5 = 6s.
	if !strings.Contains(joined, "-t 6 /work/seg.mp4") {
		t.Fatalf("non-final segment duration wrong: %s", joined)
	}
}

func TestBatchArgsZoomUsesZoompan(t *testing.T) {
	cfg := testSettings()
	cfg.ZoomEnabled = true
	cfg.ZoomFactor = 1.08

	args := BatchArgs(cfg, []string{"/imgs/a.jpg"}, "/work/seg.mp4", true)
	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-loop") {
		t.Fatalf("zoompan inputs must not loop: %s", joined)
	}
	if !strings.Contains(joined, "zoompan=z='min(zoom+") {
		t.Fatalf("expected zoompan filter: %s", joined)
	}
	if !strings.Contains(joined, ":s=1920x1080:fps=30") {
		t.Fatalf("zoompan output geometry wrong: %s", joined)
	}
	if !strings.Contains(joined, "-map [v0]") {
		t.Fatalf("single image must map its prepared stream: %s", joined)
	}
}

func TestConcatArgs(t *testing.T) {
	args := ConcatArgs("/work/segments.txt", "/work/joined.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i /work/segments.txt -c copy /work/joined.mp4") {
		t.Fatalf("unexpected concat args: %s", joined)
	}
}

func TestFadeArgs(t *testing.T) {
	cfg := testSettings()
	args := FadeArgs(cfg, "/work/joined.mp4", 60, "/out/final.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "fade=t=in:st=0:d=2,fade=t=out:st=58:d=2") {
		t.Fatalf("unexpected fade filter: %s", joined)
	}
	if !strings.Contains(joined, "/out/final.mp4") {
		t.Fatalf("output missing: %s", joined)
	}
}

func TestSegmentDurations(t *testing.T) {
	cfg := testSettings()
	if got := segmentDuration(cfg, 5, true); got != 24 {
		t.Fatalf("final segment duration = %v, want 24", got)
	}
	if got := segmentDuration(cfg, 5, false); got != 19.5 {
		t.Fatalf("non-final segment duration = %v, want 19.5", got)
	}
}
