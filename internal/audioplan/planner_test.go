package audioplan

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"albumreel/internal/config"
	"albumreel/internal/logging"
	"albumreel/internal/media/ffprobe"
)

func plannerConfig() *config.Config {
	cfg := config.Default()
	cfg.Audio.CrossfadeDuration = 4
	cfg.Audio.FadeIn = 2
	cfg.Audio.FadeOut = 5
	return &cfg
}

func durationsProbe(durations map[string]float64) PlannerOption {
	return WithPlannerProber(func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		duration, ok := durations[path]
		if !ok {
			return ffprobe.Result{}, fmt.Errorf("unexpected probe of %s", path)
		}
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "audio"}},
			Format:  ffprobe.Format{Duration: fmt.Sprintf("%.3f", duration)},
		}, nil
	})
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestBuildLaysTracksWithCrossfadeOverlap(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard(), durationsProbe(map[string]float64{
		"one.mp3":   100,
		"two.mp3":   80,
		"three.mp3": 120,
	}))

	plan, err := planner.Build(context.Background(), []string{"one.mp3", "two.mp3", "three.mp3"}, 200)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(plan), plan)
	}

	first := plan[0]
	if !closeTo(first.Start, 0) || !closeTo(first.End, 100) {
		t.Errorf("first segment spans %v-%v, want 0-100", first.Start, first.End)
	}
	if !closeTo(first.FadeIn, 2) {
		t.Errorf("first segment fadeIn = %v, want the opening fade 2", first.FadeIn)
	}

	second := plan[1]
	if !closeTo(second.Start, 96) || !closeTo(second.End, 176) {
		t.Errorf("second segment spans %v-%v, want 96-176", second.Start, second.End)
	}
	if !closeTo(second.FadeIn, 4) || !closeTo(second.FadeOut, 4) {
		t.Errorf("second segment fades %v/%v, want crossfade 4/4", second.FadeIn, second.FadeOut)
	}

	final := plan[2]
	if !closeTo(final.Start, 172) || !closeTo(final.End, 200) {
		t.Errorf("final segment spans %v-%v, want 172-200 (clamped)", final.Start, final.End)
	}
	if !closeTo(final.FadeOut, 5) {
		t.Errorf("final segment fadeOut = %v, want the closing fade 5", final.FadeOut)
	}

	if err := plan.Validate(); err != nil {
		t.Errorf("built plan fails validation: %v", err)
	}
}

func TestBuildIgnoresTracksPastTheTarget(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard(), durationsProbe(map[string]float64{
		"one.mp3": 300,
		"two.mp3": 300,
	}))

	plan, err := planner.Build(context.Background(), []string{"one.mp3", "two.mp3"}, 250)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("got %d segments, want 1", len(plan))
	}
	if !closeTo(plan[0].End, 250) {
		t.Errorf("segment end = %v, want clamped 250", plan[0].End)
	}
}

func TestBuildSkipsTracksShorterThanCrossfade(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard(), durationsProbe(map[string]float64{
		"blip.mp3": 3,
		"one.mp3":  120,
	}))

	plan, err := planner.Build(context.Background(), []string{"blip.mp3", "one.mp3"}, 100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan) != 1 || plan[0].File != "one.mp3" {
		t.Fatalf("expected only one.mp3 in plan, got %+v", plan)
	}
}

func TestBuildErrorsWhenTracksCannotCoverTarget(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard(), durationsProbe(map[string]float64{
		"one.mp3": 60,
	}))

	_, err := planner.Build(context.Background(), []string{"one.mp3"}, 600)
	if err == nil {
		t.Fatal("expected error when tracks cannot cover the target")
	}
	if !strings.Contains(err.Error(), "cover") {
		t.Errorf("error should report coverage shortfall: %v", err)
	}
}

func TestBuildErrorsOnTrackWithoutAudioStream(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard(), WithPlannerProber(
		func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
			return ffprobe.Result{
				Streams: []ffprobe.Stream{{CodecType: "video"}},
				Format:  ffprobe.Format{Duration: "60.0"},
			}, nil
		}))

	if _, err := planner.Build(context.Background(), []string{"clip.mp4"}, 30); err == nil {
		t.Fatal("expected error for track without audio stream")
	}
}

func TestDiscoverTracksSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeTrackFiles(t, dir, "02 second.mp3", "01 first.flac", "cover.jpg")

	tracks, err := DiscoverTracks(dir)
	if err != nil {
		t.Fatalf("DiscoverTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2: %v", len(tracks), tracks)
	}
	if !strings.HasSuffix(tracks[0], "01 first.flac") || !strings.HasSuffix(tracks[1], "02 second.mp3") {
		t.Errorf("tracks out of order: %v", tracks)
	}
}

func TestDiscoverTracksErrorsWhenEmpty(t *testing.T) {
	if _, err := DiscoverTracks(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without audio files")
	}
}

func TestBuildRejectsNonPositiveTarget(t *testing.T) {
	planner := NewPlanner(plannerConfig(), logging.Discard())
	if _, err := planner.Build(context.Background(), []string{"one.mp3"}, 0); err == nil {
		t.Fatal("expected error for zero target duration")
	}
}
