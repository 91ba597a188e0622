package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"albumreel/internal/manifest"
	"albumreel/internal/media/ffmpeg"
	"albumreel/internal/naming"
	"albumreel/internal/slideshow"
	"albumreel/internal/workspace"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var imagesDir string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "render [album-id]",
		Short: "Assemble staged images into a crossfading slideshow video",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			ws, err := workspace.New(cfg.Paths.StagingDir)
			if err != nil {
				return err
			}
			if err := ws.Acquire(); err != nil {
				return err
			}
			defer ws.Release()

			dir := strings.TrimSpace(imagesDir)
			if dir == "" {
				if len(args) == 0 {
					return fmt.Errorf("provide an album id or --images directory")
				}
				dir = filepath.Join(ws.StagingDir(), "albums", args[0])
			}

			out := strings.TrimSpace(outputPath)
			if out == "" {
				var albumID string
				if len(args) > 0 {
					albumID = args[0]
				}
				name, err := renderOutputName(cmd.Context(), ws.ManifestPath(), albumID)
				if err != nil {
					return err
				}
				out = filepath.Join(cfg.Paths.OutputDir, name)
			}

			runDir, err := ws.RunDir()
			if err != nil {
				return err
			}
			defer ws.CleanupRun(runDir)

			builder := slideshow.NewBuilder(cfg, ffmpeg.NewRunner(), logger)
			if err := builder.Render(cmd.Context(), dir, runDir, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images", "", "Directory of images to render (overrides album id)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path")
	return cmd
}

// renderOutputName derives the default output filename from the album title
// recorded during fetch. Renders without an album id fall back to a fixed
// name.
func renderOutputName(ctx context.Context, manifestPath, albumID string) (string, error) {
	if albumID == "" {
		return "slideshow.mp4", nil
	}
	store, err := manifest.Open(manifestPath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	name, found, err := store.AlbumName(ctx, albumID)
	if err != nil {
		return "", err
	}
	if !found {
		return "slideshow.mp4", nil
	}
	return naming.OutputBase(name) + ".mp4", nil
}
