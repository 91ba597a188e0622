package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"albumreel/internal/audioplan"
	"albumreel/internal/config"
	"albumreel/internal/fetch"
	"albumreel/internal/manifest"
	"albumreel/internal/media/ffmpeg"
	"albumreel/internal/media/ffprobe"
	"albumreel/internal/mux"
	"albumreel/internal/naming"
	"albumreel/internal/notifications"
	"albumreel/internal/preflight"
	"albumreel/internal/slideshow"
	"albumreel/internal/workspace"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var tracksDir string
	var playlistPath string

	cmd := &cobra.Command{
		Use:   "build <album-id>",
		Short: "Fetch, render, plan, and merge in one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				for _, result := range failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
				}
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}

			notifier := notifications.NewService(cfg)
			outPath, err := runBuild(ctx, cmd, cfg, notifier, args[0], tracksDir, playlistPath)
			if err != nil {
				if notifyErr := notifier.NotifyError(cmd.Context(), err, "build"); notifyErr != nil {
					logger.Warn("error notification failed", "error", notifyErr)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tracksDir, "tracks", "", "Directory of audio files for the soundtrack")
	cmd.Flags().StringVar(&playlistPath, "playlist", "", "XSPF playlist for the soundtrack")
	return cmd
}

func runBuild(ctx *commandContext, cmd *cobra.Command, cfg *config.Config, notifier notifications.Service, albumID, tracksDir, playlistPath string) (string, error) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return "", err
	}
	client, err := ctx.immichClient()
	if err != nil {
		return "", err
	}

	ws, err := workspace.New(cfg.Paths.StagingDir)
	if err != nil {
		return "", err
	}
	if err := ws.Acquire(); err != nil {
		return "", err
	}
	defer ws.Release()

	albumDir, err := ws.AlbumDir(albumID)
	if err != nil {
		return "", err
	}
	store, err := manifest.Open(ws.ManifestPath())
	if err != nil {
		return "", err
	}
	defer store.Close()

	runCtx := cmd.Context()
	fetcher := fetch.New(client, store, logger)
	summary, err := fetcher.FetchAlbum(runCtx, albumID, albumDir)
	if err != nil {
		return "", err
	}
	if err := notifier.NotifyFetchCompleted(runCtx, summary.AlbumName, summary.Downloaded, summary.Skipped); err != nil {
		logger.Warn("fetch notification failed", "error", err)
	}

	runDir, err := ws.RunDir()
	if err != nil {
		return "", err
	}
	defer ws.CleanupRun(runDir)

	withAudio := strings.TrimSpace(tracksDir) != "" || strings.TrimSpace(playlistPath) != ""
	outPath := filepath.Join(cfg.Paths.OutputDir, naming.OutputBase(summary.AlbumName)+".mp4")

	videoPath := outPath
	if withAudio {
		videoPath = filepath.Join(runDir, "slideshow.mp4")
	}

	builder := slideshow.NewBuilder(cfg, ffmpeg.NewRunner(), logger)
	if err := builder.Render(runCtx, albumDir, filepath.Join(runDir, "segments"), videoPath); err != nil {
		return "", err
	}

	if withAudio {
		if err := buildSoundtrack(runCtx, cfg, logger, tracksDir, playlistPath, videoPath, runDir, outPath); err != nil {
			return "", err
		}
	}

	if err := notifier.NotifyBuildCompleted(runCtx, naming.DisplayTitle(summary.AlbumName), outPath); err != nil {
		logger.Warn("build notification failed", "error", err)
	}
	return outPath, nil
}

func buildSoundtrack(ctx context.Context, cfg *config.Config, logger *slog.Logger, tracksDir, playlistPath, videoPath, runDir, outPath string) error {
	tracks, err := resolveTracks(tracksDir, playlistPath)
	if err != nil {
		return err
	}

	probed, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary(), videoPath)
	if err != nil {
		return fmt.Errorf("probe slideshow: %w", err)
	}
	target := probed.DurationSeconds()
	if target <= 0 {
		return fmt.Errorf("slideshow %s reports no duration", videoPath)
	}

	planner := audioplan.NewPlanner(cfg, logger)
	plan, err := planner.Build(ctx, tracks, target)
	if err != nil {
		return err
	}
	planPath := filepath.Join(runDir, "audio_plan.json")
	if err := plan.Save(planPath); err != nil {
		return err
	}

	merger := mux.NewMerger(cfg, ffmpeg.NewRunner(), logger)
	return merger.Merge(ctx, videoPath, planPath, outPath)
}
