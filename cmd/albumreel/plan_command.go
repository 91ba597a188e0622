package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"albumreel/internal/audioplan"
	"albumreel/internal/media/ffprobe"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var tracksDir string
	var playlistPath string
	var videoPath string
	var targetDuration float64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the background audio timing plan for a slideshow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tracks, err := resolveTracks(tracksDir, playlistPath)
			if err != nil {
				return err
			}

			target := targetDuration
			if video := strings.TrimSpace(videoPath); video != "" {
				probed, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), video)
				if err != nil {
					return fmt.Errorf("probe video: %w", err)
				}
				target = probed.DurationSeconds()
			}
			if target <= 0 {
				return fmt.Errorf("provide --video or a positive --duration")
			}

			planner := audioplan.NewPlanner(cfg, logger)
			plan, err := planner.Build(cmd.Context(), tracks, target)
			if err != nil {
				return err
			}
			if err := plan.Save(outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d segments covering %.1fs to %s\n",
				len(plan), plan.Duration(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tracksDir, "tracks", "", "Directory of audio files, used in sorted order")
	cmd.Flags().StringVar(&playlistPath, "playlist", "", "XSPF playlist naming the audio files")
	cmd.Flags().StringVar(&videoPath, "video", "", "Slideshow video whose duration the plan must cover")
	cmd.Flags().Float64Var(&targetDuration, "duration", 0, "Target duration in seconds (when no --video)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "audio_plan.json", "Plan output path")
	return cmd
}

// resolveTracks picks the audio source: exactly one of a track directory or
// an XSPF playlist.
func resolveTracks(tracksDir, playlistPath string) ([]string, error) {
	tracksDir = strings.TrimSpace(tracksDir)
	playlistPath = strings.TrimSpace(playlistPath)
	switch {
	case tracksDir != "" && playlistPath != "":
		return nil, fmt.Errorf("--tracks and --playlist are mutually exclusive")
	case tracksDir != "":
		return audioplan.DiscoverTracks(tracksDir)
	case playlistPath != "":
		return audioplan.ParseXSPF(playlistPath)
	default:
		return nil, fmt.Errorf("provide --tracks or --playlist")
	}
}
