package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"albumreel/internal/fetch"
	"albumreel/internal/manifest"
	"albumreel/internal/workspace"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <album-id>",
		Short: "Download an album's images into the staging directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := runFetch(ctx, cmd, args[0])
			if err != nil {
				return err
			}
			printFetchSummary(cmd, summary)
			return nil
		},
	}
}

func runFetch(ctx *commandContext, cmd *cobra.Command, albumID string) (*fetch.Summary, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := ctx.immichClient()
	if err != nil {
		return nil, err
	}

	ws, err := workspace.New(cfg.Paths.StagingDir)
	if err != nil {
		return nil, err
	}
	albumDir, err := ws.AlbumDir(albumID)
	if err != nil {
		return nil, err
	}
	store, err := manifest.Open(ws.ManifestPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	fetcher := fetch.New(client, store, logger)
	return fetcher.FetchAlbum(cmd.Context(), albumID, albumDir)
}

func printFetchSummary(cmd *cobra.Command, summary *fetch.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched album %q\n", summary.AlbumName)
	fmt.Fprintln(out, renderTable(
		[]string{"Images", "Downloaded", "Skipped", "Directory"},
		[][]string{{
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Downloaded),
			strconv.Itoa(summary.Skipped),
			summary.Dir,
		}},
		0, 1, 2,
	))
}
