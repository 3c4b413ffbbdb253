package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"asciivid/internal/config"
	"asciivid/internal/container"
	"asciivid/internal/outputs"
	"asciivid/internal/rle"
	"asciivid/internal/services"
	"asciivid/internal/textutil"
)

func newOutputsCommand(ctx *commandContext) *cobra.Command {
	outputsCmd := &cobra.Command{
		Use:     "outputs",
		Aliases: []string{"history"},
		Short:   "Inspect and manage saved text exports",
	}
	outputsCmd.AddCommand(newOutputsListCommand(ctx))
	outputsCmd.AddCommand(newOutputsShowCommand(ctx))
	outputsCmd.AddCommand(newOutputsDownloadCommand(ctx))
	outputsCmd.AddCommand(newOutputsDeleteCommand(ctx))
	outputsCmd.AddCommand(newOutputsPlayCommand(ctx))
	return outputsCmd
}

type outputView struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Filename   string  `json:"filename"`
	Type       string  `json:"type"`
	Dimensions string  `json:"dimensions"`
	FPS        int     `json:"fps"`
	FrameCount int     `json:"frame_count"`
	Duration   float64 `json:"duration"`
	Size       int64   `json:"size"`
	CreatedAt  string  `json:"created_at"`
}

func newOutputView(rec outputs.Record) outputView {
	return outputView{
		ID:         rec.ID,
		Name:       rec.Name,
		Filename:   rec.Filename,
		Type:       rec.Type,
		Dimensions: rec.Dimensions,
		FPS:        rec.FPS,
		FrameCount: rec.FrameCount,
		Duration:   rec.Duration,
		Size:       rec.Size,
		CreatedAt:  rec.Time().UTC().Format(time.RFC3339),
	}
}

var historyColumns = []column{
	{title: "ID"},
	{title: "Name"},
	{title: "Type"},
	{title: "Dimensions"},
	{title: "Frames", right: true},
	{title: "FPS", right: true},
	{title: "Size", right: true},
	{title: "Age"},
}

func newOutputsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved exports, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *outputs.Store) error {
				records := store.GetAll(cmd.Context())
				if jsonOut {
					views := make([]outputView, 0, len(records))
					for _, rec := range records {
						views = append(views, newOutputView(rec))
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No saved outputs")
					return nil
				}
				now := time.Now()
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ID,
						rec.Name,
						rec.Type,
						rec.Dimensions,
						strconv.Itoa(rec.FrameCount),
						strconv.Itoa(rec.FPS),
						outputs.FormatSize(rec.Size),
						outputs.FormatAge(rec.Timestamp, now),
					})
				}
				fmt.Fprintln(out, renderTable(historyColumns, rows, fmt.Sprintf("%d of %d slots used", len(records), store.Capacity())))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOutputsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *outputs.Store) error {
				rec, err := lookupOutput(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newOutputView(rec))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:          %s\n", rec.ID)
				fmt.Fprintf(out, "Name:        %s\n", rec.Name)
				fmt.Fprintf(out, "File:        %s\n", rec.DownloadName())
				fmt.Fprintf(out, "Type:        %s\n", rec.Type)
				fmt.Fprintf(out, "Dimensions:  %s\n", rec.Dimensions)
				fmt.Fprintf(out, "Frames:      %d @ %d fps (%.1fs)\n", rec.FrameCount, rec.FPS, rec.Duration)
				fmt.Fprintf(out, "Size:        %s\n", outputs.FormatSize(rec.Size))
				fmt.Fprintf(out, "Created:     %s\n", outputs.FormatDate(rec.Timestamp))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newOutputsDownloadCommand(ctx *commandContext) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Write a saved export back to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *outputs.Store) error {
				rec, err := lookupOutput(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				data, err := container.DecodePayload(rec.Data)
				if err != nil {
					return services.Wrap(services.ErrValidation, "outputs", "decode payload",
						fmt.Sprintf("Output %s is corrupt", rec.ID), err)
				}
				target := strings.TrimSpace(dir)
				if target == "" {
					target = cfg.Paths.DownloadsDir
				} else if target, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve directory: %w", err)
				}
				if err := os.MkdirAll(target, 0o755); err != nil {
					return fmt.Errorf("create directory %q: %w", target, err)
				}
				path := filepath.Join(target, textutil.SanitizeFileName(rec.DownloadName()))
				if err := renameio.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", path, outputs.FormatSize(int64(len(data))))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Destination directory (defaults to paths.downloads_dir)")
	return cmd
}

func newOutputsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved export from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *outputs.Store) error {
				id := strings.TrimSpace(args[0])
				_, existed := store.GetByID(cmd.Context(), id)
				if !store.Delete(cmd.Context(), id) {
					return fmt.Errorf("delete output %s: history could not be written", id)
				}
				out := cmd.OutOrStdout()
				if existed {
					fmt.Fprintf(out, "Deleted output %s\n", id)
				} else {
					fmt.Fprintf(out, "No output with id %s; nothing to delete\n", id)
				}
				return nil
			})
		},
	}
}

func newOutputsPlayCommand(ctx *commandContext) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a saved export in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *outputs.Store) error {
				rec, err := lookupOutput(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				data, err := container.DecodePayload(rec.Data)
				if err != nil {
					return services.Wrap(services.ErrValidation, "outputs", "decode payload",
						fmt.Sprintf("Output %s is corrupt", rec.ID), err)
				}
				stream, err := container.Decode(data)
				if err != nil {
					return err
				}
				rate := stream.Header.FPS
				if cmd.Flags().Changed("fps") {
					rate = fps
				}
				return playStream(cmd.Context(), cmd.OutOrStdout(), stream, rate)
			})
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 0, "Override the recorded playback rate")
	return cmd
}

// playStream renders every frame of stream to out, pacing frames at fps.
func playStream(ctx context.Context, out io.Writer, stream container.Stream, fps int) error {
	if fps < 1 {
		fps = 1
	}
	colorize := shouldColorize(out)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for i, enc := range stream.Frames {
		frame, err := rle.Decode(enc, stream.Header.Width)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if colorize {
			fmt.Fprint(out, ansiClearScreen)
		}
		fmt.Fprintln(out, renderFrame(frame, colorize))
		if i == len(stream.Frames)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func lookupOutput(ctx context.Context, store *outputs.Store, id string) (outputs.Record, error) {
	id = strings.TrimSpace(id)
	rec, ok := store.GetByID(ctx, id)
	if !ok {
		return outputs.Record{}, services.Wrap(services.ErrNotFound, "outputs", "lookup",
			fmt.Sprintf("No output with id %q", id), nil)
	}
	return rec, nil
}
