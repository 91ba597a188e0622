// Package mux combines a slideshow video with a background audio plan into
// the final output via a single ffmpeg mixing graph.
package mux

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"albumreel/internal/audioplan"
	"albumreel/internal/config"
	"albumreel/internal/media/ffmpeg"
	"albumreel/internal/media/ffprobe"
)

// Merger runs the merge step.
type Merger struct {
	cfg        config.Audio
	ffmpegBin  string
	ffprobeBin string
	runner     ffmpeg.Runner
	probe      func(ctx context.Context, binary, path string) (ffprobe.Result, error)
	logger     *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithProber injects a custom media prober (primarily for tests).
func WithProber(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) Option {
	return func(m *Merger) {
		if probe != nil {
			m.probe = probe
		}
	}
}

// NewMerger constructs a Merger from application config.
func NewMerger(cfg *config.Config, runner ffmpeg.Runner, logger *slog.Logger, opts ...Option) *Merger {
	merger := &Merger{
		cfg:        cfg.Audio,
		ffmpegBin:  cfg.FFmpegBinary(),
		ffprobeBin: cfg.FFprobeBinary(),
		runner:     runner,
		probe:      ffprobe.Inspect,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(merger)
	}
	return merger
}

// Merge validates the inputs, probes the video duration, and runs one ffmpeg
// invocation mixing every plan segment under the copied video stream.
func (m *Merger) Merge(ctx context.Context, videoPath, planPath, outPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("video: %w", err)
	}
	plan, err := audioplan.Load(planPath)
	if err != nil {
		return err
	}
	for _, seg := range plan {
		if _, err := os.Stat(seg.File); err != nil {
			return fmt.Errorf("plan segment: %w", err)
		}
	}

	probed, err := m.probe(ctx, m.ffprobeBin, videoPath)
	if err != nil {
		return fmt.Errorf("probe video: %w", err)
	}
	videoDuration := probed.DurationSeconds()
	if videoDuration <= 0 {
		return fmt.Errorf("video %s reports no duration", videoPath)
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	log := m.logger.With("component", "mux")
	log.Info("merging audio plan", "video", videoPath, "segments", len(plan), "output", outPath)

	args := MergeArgs(m.cfg, videoPath, plan, videoDuration, outPath)
	if err := m.runner.Run(ctx, m.ffmpegBin, args, nil); err != nil {
		return fmt.Errorf("merge audio: %w", err)
	}
	log.Info("merge complete", "output", outPath)
	return nil
}

// MergeArgs builds the full ffmpeg argument slice for the merge. The video
// stream is copied; each plan segment becomes one trimmed, faded, delayed
// audio chain feeding a single amix.
func MergeArgs(cfg config.Audio, videoPath string, plan audioplan.Plan, videoDuration float64, outPath string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", videoPath}
	for _, seg := range plan {
		args = append(args, "-i", seg.File)
	}

	var graph strings.Builder
	labels := make([]string, 0, len(plan))
	for i, seg := range plan {
		label := fmt.Sprintf("a%d", i)
		if i > 0 {
			graph.WriteString(";")
		}
		graph.WriteString(fmt.Sprintf("[%d:a]%s[%s]", i+1, segmentChain(seg), label))
		labels = append(labels, label)
	}
	graph.WriteString(";")
	for _, label := range labels {
		graph.WriteString("[" + label + "]")
	}
	graph.WriteString(fmt.Sprintf("amix=inputs=%d:normalize=0[aout]", len(plan)))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "0:v", "-map", "[aout]",
		"-c:v", "copy",
		"-c:a", cfg.Codec,
		"-b:a", cfg.Bitrate,
		"-t", formatFloat(videoDuration),
		outPath,
	)
	return args
}

// segmentChain renders one segment's filter chain: trim the source from
// fileStart, reset timestamps, fade in and out, then delay onto the output
// timeline.
func segmentChain(seg audioplan.Segment) string {
	length := seg.Length()
	fadeOutStart := length - seg.FadeOut
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	parts := []string{
		fmt.Sprintf("atrim=start=%s:duration=%s", formatFloat(seg.FileStart), formatFloat(length)),
		"asetpts=PTS-STARTPTS",
	}
	if seg.FadeIn > 0 {
		parts = append(parts, fmt.Sprintf("afade=t=in:st=0:d=%s", formatFloat(seg.FadeIn)))
	}
	if seg.FadeOut > 0 {
		parts = append(parts, fmt.Sprintf("afade=t=out:st=%s:d=%s", formatFloat(fadeOutStart), formatFloat(seg.FadeOut)))
	}
	delayMs := int(math.Round(seg.Start * 1000))
	parts = append(parts, fmt.Sprintf("adelay=%d|%d", delayMs, delayMs))
	return strings.Join(parts, ",")
}

func formatFloat(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 3, 64)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}
