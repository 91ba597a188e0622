package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 4032, Height: 3024},
			{CodecType: "audio", Channels: 2},
			{CodecType: "audio", Channels: 2},
		},
		Format: Format{Duration: "123.45"},
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	w, h, ok := result.Dimensions()
	if !ok || w != 4032 || h != 3024 {
		t.Fatalf("unexpected dimensions: %dx%d ok=%v", w, h, ok)
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "200.5"}},
	}
	if result.DurationSeconds() != 200.5 {
		t.Fatalf("expected stream duration fallback, got %v", result.DurationSeconds())
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected 0 for unparsable duration, got %v", result.DurationSeconds())
	}
	if _, _, ok := result.Dimensions(); ok {
		t.Fatal("expected no dimensions without a video stream")
	}
}
