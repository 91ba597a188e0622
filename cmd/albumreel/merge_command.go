package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"albumreel/internal/media/ffmpeg"
	"albumreel/internal/mux"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var videoPath string
	var planPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Mix the planned audio under a slideshow video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			merger := mux.NewMerger(cfg, ffmpeg.NewRunner(), logger)
			if err := merger.Merge(cmd.Context(), videoPath, planPath, outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Slideshow video to merge into")
	cmd.Flags().StringVar(&planPath, "plan", "", "Audio plan JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path")
	cmd.MarkFlagRequired("video")
	cmd.MarkFlagRequired("plan")
	cmd.MarkFlagRequired("output")
	return cmd
}
