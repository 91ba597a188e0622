package slideshow

import (
	"fmt"
	"strconv"
	"strings"

	"albumreel/internal/config"
)

// inputDuration is how long each looped image input runs: long enough to cover
// the hold plus the crossfade out of the image.
func inputDuration(cfg config.Slideshow) float64 {
	return cfg.ImageDuration + cfg.CrossfadeDuration
}

// segmentDuration returns the trimmed duration of a batch segment. Non-final
// segments end right after the crossfade into the shared boundary image so the
// following segment can re-open with it.
func segmentDuration(cfg config.Slideshow, imageCount int, last bool) float64 {
	hold := cfg.ImageDuration - cfg.CrossfadeDuration
	if last {
		return float64(imageCount-1)*hold + cfg.ImageDuration
	}
	return float64(imageCount-1)*hold + cfg.CrossfadeDuration
}

// imageFilter builds the per-image scaling chain feeding input i into [v<i>].
func imageFilter(cfg config.Slideshow, index int) string {
	if cfg.ZoomEnabled {
		frames := int(float64(cfg.FPS)*inputDuration(cfg) + 0.5)
		step := (cfg.ZoomFactor - 1) / float64(frames)
		return fmt.Sprintf(
			"[%d:v]scale=w=%d:h=%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
				"zoompan=z='min(zoom+%s,%s)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d,"+
				"setsar=1,format=%s[v%d]",
			index, cfg.Width*2, cfg.Height*2, cfg.Width*2, cfg.Height*2,
			fmt.Sprintf("%.6f", step), formatFloat(cfg.ZoomFactor), frames, cfg.Width, cfg.Height, cfg.FPS,
			cfg.PixelFormat, index)
	}
	return fmt.Sprintf(
		"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
			"pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d,format=%s[v%d]",
		index, cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.FPS, cfg.PixelFormat, index)
}

// batchFilterGraph chains the prepared images with xfade transitions. The
// final labelled output is returned alongside the graph.
func batchFilterGraph(cfg config.Slideshow, imageCount int) (string, string) {
	var parts []string
	for i := 0; i < imageCount; i++ {
		parts = append(parts, imageFilter(cfg, i))
	}
	if imageCount == 1 {
		return strings.Join(parts, ";"), "[v0]"
	}

	hold := cfg.ImageDuration - cfg.CrossfadeDuration
	last := "v0"
	offset := hold
	for i := 1; i < imageCount; i++ {
		out := fmt.Sprintf("x%d", i)
		parts = append(parts, fmt.Sprintf("[%s][v%d]xfade=transition=fade:duration=%s:offset=%s[%s]",
			last, i, formatFloat(cfg.CrossfadeDuration), formatFloat(offset), out))
		last = out
		offset += hold
	}
	return strings.Join(parts, ";"), "[" + last + "]"
}

// BatchArgs builds the full ffmpeg argument slice rendering one batch of
// images into segPath.
func BatchArgs(cfg config.Slideshow, images []string, segPath string, last bool) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}

	for _, image := range images {
		if cfg.ZoomEnabled {
			// zoompan synthesizes the frames, so the still is read once.
			args = append(args, "-i", image)
		} else {
			args = append(args, "-loop", "1", "-t", formatFloat(inputDuration(cfg)), "-i", image)
		}
	}

	graph, out := batchFilterGraph(cfg, len(images))
	args = append(args, "-filter_complex", graph, "-map", out)
	args = append(args, encoderArgs(cfg)...)
	args = append(args,
		"-t", formatFloat(segmentDuration(cfg, len(images), last)),
		segPath,
	)
	return args
}

// ConcatArgs joins the batch segments listed in listPath without re-encoding.
func ConcatArgs(listPath, outPath string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
}

// FadeArgs re-encodes the joined video with a fade from and to black.
func FadeArgs(cfg config.Slideshow, inPath string, totalDuration float64, outPath string) []string {
	fadeOutStart := totalDuration - cfg.FadeDuration
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	filter := fmt.Sprintf("fade=t=in:st=0:d=%s,fade=t=out:st=%s:d=%s",
		formatFloat(cfg.FadeDuration), formatFloat(fadeOutStart), formatFloat(cfg.FadeDuration))

	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", inPath, "-vf", filter}
	args = append(args, encoderArgs(cfg)...)
	args = append(args, outPath)
	return args
}

func encoderArgs(cfg config.Slideshow) []string {
	return []string{
		"-c:v", cfg.Codec,
		"-crf", strconv.Itoa(cfg.CRF),
		"-preset", cfg.Preset,
		"-pix_fmt", cfg.PixelFormat,
		"-r", strconv.Itoa(cfg.FPS),
		"-an",
	}
}

func formatFloat(value float64) string {
	s := strconv.FormatFloat(value, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
