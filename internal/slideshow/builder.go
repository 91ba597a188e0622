package slideshow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"albumreel/internal/config"
	"albumreel/internal/media/ffmpeg"
	"albumreel/internal/media/ffprobe"
)

// Builder renders slideshow videos from staged images.
type Builder struct {
	cfg        config.Slideshow
	ffmpegBin  string
	ffprobeBin string
	runner     ffmpeg.Runner
	probe      func(ctx context.Context, binary, path string) (ffprobe.Result, error)
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithProber injects a custom media prober (primarily for tests).
func WithProber(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) Option {
	return func(b *Builder) {
		if probe != nil {
			b.probe = probe
		}
	}
}

// NewBuilder constructs a Builder from application config.
func NewBuilder(cfg *config.Config, runner ffmpeg.Runner, logger *slog.Logger, opts ...Option) *Builder {
	builder := &Builder{
		cfg:        cfg.Slideshow,
		ffmpegBin:  cfg.FFmpegBinary(),
		ffprobeBin: cfg.FFprobeBinary(),
		runner:     runner,
		probe:      ffprobe.Inspect,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// Render assembles the images in imagesDir into a slideshow video at outPath,
// using workDir for intermediate batch segments. Batches are rendered
// sequentially, one blocking ffmpeg invocation each.
func (b *Builder) Render(ctx context.Context, imagesDir, workDir, outPath string) error {
	images, err := DiscoverImages(imagesDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	batches := splitBatches(images, b.cfg.BatchSize)
	log := b.logger.With("component", "slideshow")
	log.Info("rendering slideshow", "images", len(images), "batches", len(batches), "output", outPath)

	segments := make([]string, 0, len(batches))
	for i, batch := range batches {
		segPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp4", i))
		last := i == len(batches)-1
		args := BatchArgs(b.cfg, batch, segPath, last)

		log.Info("rendering batch", "batch", i+1, "images", len(batch))
		if err := b.runner.Run(ctx, b.ffmpegBin, args, nil); err != nil {
			return fmt.Errorf("render batch %d: %w", i+1, err)
		}
		segments = append(segments, segPath)
	}

	joined := segments[0]
	if len(segments) > 1 {
		joined = filepath.Join(workDir, "joined.mp4")
		listPath := filepath.Join(workDir, "segments.txt")
		if err := writeConcatList(listPath, segments); err != nil {
			return err
		}
		log.Info("concatenating segments", "count", len(segments))
		if err := b.runner.Run(ctx, b.ffmpegBin, ConcatArgs(listPath, joined), nil); err != nil {
			return fmt.Errorf("concatenate segments: %w", err)
		}
	}

	if b.cfg.FadeDuration <= 0 {
		return finalizeOutput(joined, outPath)
	}

	probed, err := b.probe(ctx, b.ffprobeBin, joined)
	if err != nil {
		return fmt.Errorf("probe joined video: %w", err)
	}
	total := probed.DurationSeconds()
	if total <= 0 {
		return fmt.Errorf("joined video %s reports no duration", joined)
	}

	log.Info("applying fades", "duration", total)
	if err := b.runner.Run(ctx, b.ffmpegBin, FadeArgs(b.cfg, joined, total, outPath), nil); err != nil {
		return fmt.Errorf("apply fades: %w", err)
	}
	return nil
}

// writeConcatList writes the concat demuxer list file. Single quotes inside
// paths follow the demuxer's escaping rules.
func writeConcatList(listPath string, segments []string) error {
	var sb strings.Builder
	for _, segment := range segments {
		escaped := strings.ReplaceAll(segment, "'", `'\''`)
		fmt.Fprintf(&sb, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(listPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func finalizeOutput(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
