package audioplan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"albumreel/internal/config"
	"albumreel/internal/media/ffprobe"
)

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".aac":  {},
	".flac": {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
}

// Planner lays audio tracks across a target duration.
type Planner struct {
	cfg        config.Audio
	ffprobeBin string
	probe      func(ctx context.Context, binary, path string) (ffprobe.Result, error)
	logger     *slog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerProber injects a custom media prober (primarily for tests).
func WithPlannerProber(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) PlannerOption {
	return func(p *Planner) {
		if probe != nil {
			p.probe = probe
		}
	}
}

// NewPlanner constructs a Planner from application config.
func NewPlanner(cfg *config.Config, logger *slog.Logger, opts ...PlannerOption) *Planner {
	planner := &Planner{
		cfg:        cfg.Audio,
		ffprobeBin: cfg.FFprobeBinary(),
		probe:      ffprobe.Inspect,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(planner)
	}
	return planner
}

// DiscoverTracks returns the audio files in dir sorted by filename.
func DiscoverTracks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read tracks directory: %w", err)
	}
	var tracks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; !ok {
			continue
		}
		tracks = append(tracks, filepath.Join(dir, entry.Name()))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no audio files found in %s", dir)
	}
	sort.Strings(tracks)
	return tracks, nil
}

// Build probes each track and lays them across targetDuration in order,
// overlapping adjacent tracks by the configured crossfade. The final segment
// is clamped to the target and carries the closing fade-out. Tracks left over
// once the target is covered are unused; running out of tracks before the
// target is reached is an error.
func (p *Planner) Build(ctx context.Context, tracks []string, targetDuration float64) (Plan, error) {
	if targetDuration <= 0 {
		return nil, fmt.Errorf("target duration must be positive, got %.3f", targetDuration)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no audio tracks to plan")
	}

	log := p.logger.With("component", "audioplan")
	crossfade := p.cfg.CrossfadeDuration

	var plan Plan
	cursor := 0.0
	for _, track := range tracks {
		probed, err := p.probe(ctx, p.ffprobeBin, track)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", track, err)
		}
		duration := probed.DurationSeconds()
		if duration <= 0 {
			return nil, fmt.Errorf("track %s reports no duration", track)
		}
		if probed.AudioStreamCount() == 0 {
			return nil, fmt.Errorf("track %s has no audio stream", track)
		}
		if duration <= crossfade {
			log.Warn("skipping track shorter than the crossfade", "track", track, "duration", duration)
			continue
		}

		seg := Segment{
			File:    track,
			Start:   cursor,
			End:     cursor + duration,
			FadeIn:  crossfade,
			FadeOut: crossfade,
		}
		if len(plan) == 0 {
			seg.FadeIn = p.cfg.FadeIn
		}
		if seg.End >= targetDuration {
			seg.End = targetDuration
			seg.FadeOut = p.cfg.FadeOut
			if seg.Length() <= seg.FadeOut {
				seg.FadeOut = seg.Length()
			}
			plan = append(plan, seg)
			log.Info("audio plan complete", "segments", len(plan), "duration", seg.End)
			return plan, nil
		}
		plan = append(plan, seg)
		log.Debug("placed track", "track", track, "start", seg.Start, "end", seg.End)
		cursor = seg.End - crossfade
	}

	covered := plan.Duration()
	return nil, fmt.Errorf("audio tracks cover %.1fs of the %.1fs target", covered, targetDuration)
}
