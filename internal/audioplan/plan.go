// Package audioplan computes and persists the background audio timing plan
// that the merge step turns into an ffmpeg mixing graph.
package audioplan

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// Segment places one stretch of a source audio file on the output timeline.
// Start and End are positions in the output video; FileStart is the offset
// within the source file where playback begins.
type Segment struct {
	File      string  `json:"file"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	FileStart float64 `json:"fileStart"`
	FadeIn    float64 `json:"fadeIn"`
	FadeOut   float64 `json:"fadeOut"`
}

// Length returns the segment's duration on the output timeline.
func (s Segment) Length() float64 {
	return s.End - s.Start
}

// Plan is the ordered list of audio segments covering the video.
type Plan []Segment

// Save writes the plan as an indented JSON array.
func (p Plan) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode audio plan: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create plan directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write audio plan: %w", err)
	}
	return nil
}

// Load reads and validates a plan file.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio plan: %w", err)
	}
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse audio plan %s: %w", path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("audio plan %s: %w", path, err)
	}
	return plan, nil
}

// Validate checks that the plan describes a well-formed, ordered timeline.
// Adjacent segments may overlap only within their fade windows.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("plan contains no segments")
	}
	if !sort.SliceIsSorted(p, func(i, j int) bool { return p[i].Start < p[j].Start }) {
		return fmt.Errorf("segments are not sorted by start time")
	}
	for i, seg := range p {
		if seg.File == "" {
			return fmt.Errorf("segment %d: empty file path", i)
		}
		for name, value := range map[string]float64{
			"start":     seg.Start,
			"end":       seg.End,
			"fileStart": seg.FileStart,
			"fadeIn":    seg.FadeIn,
			"fadeOut":   seg.FadeOut,
		} {
			if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
				return fmt.Errorf("segment %d: %s must be a non-negative number", i, name)
			}
		}
		if seg.End <= seg.Start {
			return fmt.Errorf("segment %d: end %.3f not after start %.3f", i, seg.End, seg.Start)
		}
		if i > 0 {
			prev := p[i-1]
			overlap := prev.End - seg.Start
			if overlap > prev.FadeOut+1e-6 && overlap > seg.FadeIn+1e-6 {
				return fmt.Errorf("segment %d overlaps previous by %.3fs, beyond its fades", i, overlap)
			}
		}
	}
	return nil
}

// Duration returns the end of the last segment, the point where audio stops.
func (p Plan) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End
}
